package sh

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/linetracer/pkg/l1"
)

func builtinCmds() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name:    "discover",
			Aliases: []string{"list", "l"},
			Help:    "[TYPE] list controllers on the registry",
			Func:    discoverCmd,
		},
		{
			Name:    "connect",
			Aliases: []string{"c"},
			Help:    "[TYPE [ID]] or TYPE/ID, select when ID is omitted",
			Func:    connectCmd,
		},
		{
			Name:    "disconnect",
			Aliases: []string{"d"},
			Help:    "close the current connection",
			Func: func(c *ishell.Context) {
				ShellFrom(c).Disconnect()
			},
		},
	}
}

func discoverCmd(c *ishell.Context) {
	s := ShellFrom(c)
	_, found, err := s.DiscoverControllers(byType(c.Args))
	if err != nil {
		c.Err(err)
		return
	}
	out, err := formatInfos(found, s.OutputJSON)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(out)
}

func connectCmd(c *ishell.Context) {
	s := ShellFrom(c)
	var ref l1.ControllerRef
	switch {
	case len(c.Args) >= 2:
		ref = l1.ControllerRef{Type: c.Args[0], ID: c.Args[1]}
	case len(c.Args) == 1 && strings.Contains(c.Args[0], "/"):
		var err error
		if ref, err = l1.ParseRef(c.Args[0]); err != nil {
			c.Err(err)
			return
		}
	case s.Config.Direct():
		// the registry URL is the controller itself.
	default:
		_, info, err := s.SelectController(byType(c.Args))
		if err != nil {
			c.Err(err)
			return
		}
		if info == nil {
			c.Err(fmt.Errorf("no controller discovered"))
			return
		}
		ref = info.Ref
	}
	if err := s.Connect(ref); err != nil {
		c.Err(err)
	}
}
