package main

import (
	"github.com/urfave/cli"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyserver"
)

var COMMANDS = []cli.Command{
	tocCommand,
	rebootCommand,
	crazyserver.ServeCommand,
}
