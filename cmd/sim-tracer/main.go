package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	env "github.com/robotalks/linetracer/pkg/l1/env/controller"
	"github.com/robotalks/linetracer/pkg/sim/track"
	"github.com/robotalks/linetracer/pkg/sim/visualization/see"
	"github.com/robotalks/linetracer/pkg/tracer"
)

const (
	imageSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="-150 -150 300 300">
		<g>
			<rect x="-100" y="-100" width="120" height="30" rx="5" />
			<rect x="-100" y="70" width="120" height="30" rx="5" />
			<rect x="-60" y="-60" width="120" height="120" rx="10" fill="none" stroke="black" stroke-width="4" />
			<rect x="50" y="-64" width="12" height="128" />
		</g>
	</svg>`
)

func init() {
	env.SetControllerType("sim-tracer", l1.ControllerMeta{Description: "Simulation: line tracer"})
	env.SetupFlags()
	see.SetupFlags()
	track.SetupFlags()
	tracer.SetupFlags()
}

func trackObject(t *track.Track) see.Object {
	return see.NewObject("path", "track").
		Path(t.Points, t.Closed).
		With("width", t.Width)
}

func main() {
	flag.Parse()

	env := env.NewConfig().MustNewEnv()
	bot := track.NewConfig().NewRobot(env.Config.Info.Ref.Name())
	ctl, err := tracer.NewConfig().NewController(bot, env.Registrar)
	if err != nil {
		log.Fatalln(err)
	}
	vis := see.NewAdapter()
	vis.Statics = []see.Object{trackObject(bot.Track)}
	vis.Mapper = see.MapObjectFunc(func(obj see.VisibleObject) []see.Object {
		return []see.Object{
			see.ObjectFrom("image", obj).With("src", "data:image/svg+xml;utf8,"+imageSVG),
		}
	})
	vis.Subscribe(bot)

	fx.NewLoop().
		WithInterval(0).
		Add(env, ctl, bot, vis).
		RunOrFail()
}
