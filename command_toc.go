package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyflie"
)

var tocCommand = cli.Command{
	Name:      "toc",
	Usage:     "Dump a Crazyflie's log and parameter tables of contents",
	ArgsUsage: "<uri (eg. radio://0/80/2M or usb://0)>",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Walk the full TOC even when a cached copy matches the CRC",
		},
	},
	Action: tocCommandHandler,
}

func tocCommandHandler(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("a link URI is required", 1)
	}

	cf, err := crazyflie.Connect(ctx.Args().First(), crazyflie.NewHub())
	if err != nil {
		return err
	}

	if ctx.Bool("no-cache") {
		err = cf.RequestParamToc()
		if err == nil {
			err = cf.RequestLogToc()
		}
	} else {
		err = cf.RequestParamTocCached()
		if err == nil {
			err = cf.RequestLogTocCached()
		}
	}
	if err != nil {
		return err
	}

	fmt.Println("Parameters:")
	for _, entry := range cf.ParamTocEntries() {
		access := "rw"
		if entry.ReadOnly {
			access = "ro"
		}
		value, _ := cf.GetParam(entry.ID)
		fmt.Printf("  %3d %-6s %s %s.%s = %v\n", entry.ID, entry.Type, access, entry.Group, entry.Name, value.Float64())
	}

	fmt.Println("Log variables:")
	for _, entry := range cf.LogTocEntries() {
		fmt.Printf("  %3d type=%d %s.%s\n", entry.ID, entry.Type, entry.Group, entry.Name)
	}

	return nil
}
