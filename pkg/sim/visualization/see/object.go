package see

import (
	"strings"

	"github.com/robotalks/linetracer/pkg/sim"
)

// VisibleObject is a simulated object drawn on the floor.
type VisibleObject interface {
	sim.Object
	sim.Rectangular
	sim.Positionable2D
}

// ObjectMapper draws a VisibleObject as one or more shapes.
type ObjectMapper interface {
	MapObject(VisibleObject) []Object
}

// MapObjectFunc is the func form of ObjectMapper.
type MapObjectFunc func(VisibleObject) []Object

// MapObject implements ObjectMapper.
func (f MapObjectFunc) MapObject(obj VisibleObject) []Object {
	return f(obj)
}

// Object is a shape in the scene, sent as a JSON object. Shapes are
// replaced by id.
type Object map[string]interface{}

// Pos is a point of the scene in mm.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape properties.
const (
	PropID     = "id"
	PropType   = "type"
	PropOrigin = "origin"
	PropRadius = "radius"
	PropRotate = "rotate"
	PropPoints = "points"
)

// ObjectID turns an object name, like "sim-tracer/t1", into a scene id.
func ObjectID(name string) string {
	return strings.Replace(name, "/", ".", -1)
}

// NewObject creates a shape.
func NewObject(typ, id string) Object {
	return Object{PropID: id, PropType: typ}
}

// ObjectFrom creates a shape at the pose of vo, large enough for its
// outline.
func ObjectFrom(typ string, vo VisibleObject) Object {
	rc, pose := vo.OutlineRect(), vo.Position2D()
	return NewObject(typ, ObjectID(vo.Name())).
		At(pose.Pos2D).
		Radius(maxOf(rc.CX, rc.CY)).
		Rotate(pose.Orientation.Degrees())
}

// At sets origin.
func (o Object) At(p sim.Pos2D) Object {
	return o.With(PropOrigin, Pos{X: p.X, Y: p.Y})
}

// Radius sets radius.
func (o Object) Radius(r float64) Object {
	return o.With(PropRadius, r)
}

// Rotate sets the rotation in degrees.
func (o Object) Rotate(deg float64) Object {
	return o.With(PropRotate, deg)
}

// Path makes the shape a polyline through pts.
func (o Object) Path(pts []sim.Pos2D, closed bool) Object {
	points := make([]Pos, len(pts))
	for n, p := range pts {
		points[n] = Pos{X: p.X, Y: p.Y}
	}
	return o.With(PropPoints, points).With("closed", closed)
}

// With sets any other property.
func (o Object) With(key string, val interface{}) Object {
	o[key] = val
	return o
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
