// Package all registers every shell command set.
package all

import (
	_ "github.com/robotalks/linetracer/pkg/cli/cmds/joystick"
	_ "github.com/robotalks/linetracer/pkg/cli/cmds/tracer"
)
