// Package see streams the simulation to github.com/robotalks/see, one
// JSON array of scene updates per line.
package see

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/sim"
)

// Scene actions.
const (
	ActionReset  = "reset"
	ActionObject = "object"
)

var area = sim.Size2D{CX: 1000, CY: 1000}

// SetupFlags registers the size of the visible floor.
func SetupFlags() {
	flag.Float64Var(&area.CX, "see-w", area.CX, "Width (mm) of visualization area")
	flag.Float64Var(&area.CY, "see-h", area.CY, "Height (mm) of visualization area")
}

type update struct {
	Action string `json:"action"`
	Object Object `json:"object,omitempty"`
}

// Adapter listens for moved objects and writes them out once per
// iteration. The first write resets the scene.
type Adapter struct {
	// Area is the visible floor, centered at the origin.
	Area   sim.Size2D
	Mapper ObjectMapper
	// Statics are drawn after the reset, e.g. the track.
	Statics []Object
	Out     io.Writer

	reset bool
	moved map[string]VisibleObject
}

// NewAdapter creates an Adapter of the area set by flags.
func NewAdapter() *Adapter {
	return &Adapter{Area: area, Out: os.Stdout, reset: true}
}

// Subscribe listens to sub.
func (a *Adapter) Subscribe(sub sim.ObjectsChangeSubscriber) *Adapter {
	sub.SubscribeObjectsChange(a)
	return a
}

// ObjectsChanged implements sim.ObjectsChangeListener. Objects which
// can't be drawn are ignored.
func (a *Adapter) ObjectsChanged(_ fx.ControlContext, objs ...sim.Object) {
	if a.moved == nil {
		a.moved = make(map[string]VisibleObject)
	}
	for _, obj := range objs {
		if vo, ok := obj.(VisibleObject); ok {
			a.moved[vo.Name()] = vo
		}
	}
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(a.ReportChanges))
}

// ReportChanges writes the pending updates.
func (a *Adapter) ReportChanges(fx.ControlContext) error {
	var updates []update
	if a.reset {
		updates = append(updates, update{Action: ActionReset})
		for _, obj := range append(a.corners(), a.Statics...) {
			updates = append(updates, update{Action: ActionObject, Object: obj})
		}
		a.reset = false
	}
	names := make([]string, 0, len(a.moved))
	for name := range a.moved {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, obj := range a.Mapper.MapObject(a.moved[name]) {
			if obj != nil {
				updates = append(updates, update{Action: ActionObject, Object: obj})
			}
		}
	}
	a.moved = nil
	if len(updates) == 0 {
		return nil
	}
	encoded, err := json.Marshal(updates)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Out, string(encoded))
	return err
}

// corners mark the visible area so the viewer can scale to it.
func (a *Adapter) corners() []Object {
	w, h := a.Area.CX/2, a.Area.CY/2
	corners := []struct {
		loc  string
		x, y float64
	}{
		{"lt", -w, -h},
		{"lb", -w, h},
		{"rt", w, -h},
		{"rb", w, h},
	}
	objs := make([]Object, len(corners))
	for n, c := range corners {
		objs[n] = NewObject("corner", "corner-"+c.loc).
			With("loc", c.loc).
			At(sim.Pos2D{X: c.x, Y: c.y}).
			Radius(1)
	}
	return objs
}
