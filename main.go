package main

import (
	"log"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "crazyflie-ros"
	app.Usage = "Host-side driver and fleet server for Crazyflie vehicles"
	app.Commands = COMMANDS

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
