package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/joystick"
	"github.com/robotalks/linetracer/pkg/l1"
	env "github.com/robotalks/linetracer/pkg/l1/env/controller"
)

func init() {
	env.SetControllerType("joystick", l1.ControllerMeta{
		Description: "Joystick speed remote",
		Labels:      map[string]string{"drives": "linetracer"},
	})
	env.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	flag.Parse()

	e := env.NewConfig().MustNewEnv()
	ctl, err := joystick.NewConfig().NewController(e)
	if err != nil {
		log.Fatalln(err)
	}
	fx.NewLoop().Add(e, ctl).RunOrFail()
}
