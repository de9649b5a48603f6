package main

import (
	"github.com/urfave/cli"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyflie"
)

var rebootCommand = cli.Command{
	Name:      "reboot",
	Usage:     "Reboot a Crazyflie",
	ArgsUsage: "<uri (eg. radio://0/80/2M or usb://0)>",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "bootloader, b",
			Usage: "Reboot into the radio bootloader instead of firmware",
		},
	},
	Action: rebootCommandHandler,
}

func rebootCommandHandler(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("a link URI is required", 1)
	}

	cf, err := crazyflie.Connect(ctx.Args().First(), crazyflie.NewHub())
	if err != nil {
		return err
	}

	if ctx.Bool("bootloader") {
		return cf.RebootToBootloader()
	}
	return cf.Reboot()
}
