package tracer

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/linetracer/pkg/cli/sh"
	"github.com/robotalks/linetracer/pkg/tracer/msgs"
)

var (
	// StatusCmd exposes StatusQuery command.
	StatusCmd = ishell.Cmd{
		Name:    "tracer.status",
		Aliases: []string{"ts"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.StatusQuery{})
		}),
	}

	// SpeedCmd exposes SpeedCommand command.
	SpeedCmd = ishell.Cmd{
		Name:    "tracer.speed",
		Aliases: []string{"tsp"},
		Help:    "SPEED(0-255)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("SPEED required"))
				return
			}
			val, err := strconv.ParseUint(c.Args[0], 10, 8)
			if err != nil {
				c.Err(fmt.Errorf("Invalid SPEED: %v", err))
				return
			}
			sh.DoCommand(c, &msgs.SpeedCommand{Speed: uint32(val)})
		}),
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&SpeedCmd,
	)
}
