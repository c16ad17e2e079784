// Package joystick adds the shell commands of the joystick controller.
package joystick

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/linetracer/pkg/cli/sh"
	"github.com/robotalks/linetracer/pkg/joystick/msgs"
	"github.com/robotalks/linetracer/pkg/l1"
)

func init() {
	sh.AddCmds(
		&ishell.Cmd{
			Name:    "js.status",
			Aliases: []string{"jss"},
			Help:    "joystick device, tracer and speed mapping",
			Func: sh.MustBeConnected(func(c *ishell.Context) {
				sh.DoCommand(c, &msgs.JoystickStatusQuery{})
			}),
		},
		&ishell.Cmd{
			Name:    "js.connect",
			Aliases: []string{"jsc"},
			Help:    "[TYPE [ID [REGISTRY_URL]]], select when ID is omitted",
			Func:    sh.MustBeConnected(connectCmd),
		},
		&ishell.Cmd{
			Name:    "js.disconnect",
			Aliases: []string{"jsd"},
			Help:    "stop driving the tracer",
			Func: sh.MustBeConnected(func(c *ishell.Context) {
				sh.DoCommand(c, &msgs.JoystickConnect{})
			}),
		},
		&ishell.Cmd{
			Name:    "js.speed",
			Aliases: []string{"jsp"},
			Help:    "AXIS MAX(0-255) [invert]",
			Func: sh.MustBeConnected(func(c *ishell.Context) {
				msg, err := parseMapSpeed(c.Args)
				if err != nil {
					c.Err(err)
					return
				}
				sh.DoCommand(c, msg)
			}),
		},
	)
}

func connectCmd(c *ishell.Context) {
	if len(c.Args) >= 2 {
		msg := &msgs.JoystickConnect{Type: c.Args[0], ID: c.Args[1]}
		if len(c.Args) > 2 {
			msg.RegistryURL = c.Args[2]
		}
		sh.DoCommand(c, msg)
		return
	}
	var filter func(l1.ControllerInfo) bool
	if len(c.Args) == 1 {
		filter = func(info l1.ControllerInfo) bool {
			return info.Ref.Type == c.Args[0]
		}
	}
	_, info, err := sh.ShellFrom(c).SelectController(filter)
	if err != nil {
		c.Err(err)
		return
	}
	if info == nil {
		c.Err(fmt.Errorf("no tracer discovered"))
		return
	}
	sh.DoCommand(c, &msgs.JoystickConnect{Type: info.Ref.Type, ID: info.Ref.ID})
}

func parseMapSpeed(args []string) (*msgs.JoystickMapSpeed, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("AXIS MAX [invert] required")
	}
	axis, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid AXIS: %v", err)
	}
	max, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX: %v", err)
	}
	msg := &msgs.JoystickMapSpeed{Axis: uint32(axis), Max: uint32(max)}
	if len(args) == 3 {
		if args[2] != "invert" {
			return nil, fmt.Errorf("unknown option %q", args[2])
		}
		msg.Invert = true
	}
	return msg, nil
}
