package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/l0/board"
	"github.com/robotalks/linetracer/pkg/l1"
	env "github.com/robotalks/linetracer/pkg/l1/env/controller"
	"github.com/robotalks/linetracer/pkg/platform/pi"
	"github.com/robotalks/linetracer/pkg/sim/track"
	"github.com/robotalks/linetracer/pkg/tracer"
)

var (
	platformName = "sim"
	configFile   string
	piConfigFile string
	serialDevice = "/dev/ttyUSB0"
	baudRate     = board.DefaultBaudRate
)

func init() {
	env.SetControllerType("linetracer", l1.ControllerMeta{Description: "Line tracer"})
	env.SetupFlags()
	tracer.SetupFlags()
	track.SetupFlags()
	pi.SetupFlags()
	flag.StringVar(&platformName, "platform", platformName, "Hardware: sim, bench, l0 or pi.")
	flag.StringVar(&configFile, "config", configFile, "YAML tuning file overriding flags.")
	flag.StringVar(&piConfigFile, "pi-config", piConfigFile, "YAML wiring file of the pi platform.")
	flag.StringVar(&serialDevice, "serial", serialDevice, "Serial port of the l0 board.")
	flag.IntVar(&baudRate, "baud", baudRate, "Baud rate of the l0 board.")
}

func openPlatform(loop *fx.Loop) (hw.Platform, io.Closer, error) {
	switch platformName {
	case "sim":
		robot := track.Default().NewRobot("linetracer")
		loop.Add(robot)
		return robot, nil, nil
	case "bench":
		return hw.NewDummy(), nil, nil
	case "l0":
		b, port, err := board.Open(serialDevice, baudRate)
		if err != nil {
			return nil, nil, err
		}
		loop.AddRunnable(fx.NamedRun("board", b))
		return b, port, nil
	case "pi":
		conf := pi.Default()
		if piConfigFile != "" {
			if err := conf.LoadFile(piConfigFile); err != nil {
				return nil, nil, err
			}
		}
		p, err := conf.Open()
		if err != nil {
			return nil, nil, err
		}
		loop.AddRunnable(fx.NamedRun("receiver", p))
		return p, p, nil
	}
	return nil, nil, fmt.Errorf("unknown platform %q", platformName)
}

func run() error {
	conf := tracer.Default()
	if configFile != "" {
		if err := conf.LoadFile(configFile); err != nil {
			return err
		}
	}

	loop := fx.NewLoop().WithInterval(0)
	platform, closer, err := openPlatform(loop)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	var reg l1.Registrar
	if envConf := env.Default(); envConf.HasRegistrars() {
		e, err := envConf.NewEnv()
		if err != nil {
			return err
		}
		loop.Add(e)
		reg = e.Registrar
	} else {
		glog.Info("no registrar configured, running standalone")
	}

	ctl, err := conf.NewController(platform, reg)
	if err != nil {
		return err
	}
	glog.Infof("line tracer on %s, speed %s", platformName, ctl.SpeedMode)
	return loop.Add(ctl).RunUntilSignaled()
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		glog.Exit(err)
	}
}
