// Package sim holds the geometry shared by the simulated track, the
// drive physics and the visualization. Lengths are in mm.
package sim

import (
	fx "github.com/robotalks/linetracer/pkg/framework"
)

// Pos2D is a point on the floor.
type Pos2D struct {
	X, Y float64
}

// OffsetBy moves p by d in place.
func (p *Pos2D) OffsetBy(d Pos2D) *Pos2D {
	p.X += d.X
	p.Y += d.Y
	return p
}

// Size2D is the extent of a rectangle.
type Size2D struct {
	CX, CY float64
}

// Rect is a rectangle, Pos2D being its corner.
type Rect struct {
	Pos2D
	Size2D
}

// Pose2D is a position and heading on the floor.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Object is a named thing in the simulation.
type Object interface {
	fx.Named
}

// Rectangular objects have an outline around their origin.
type Rectangular interface {
	OutlineRect() Rect
}

// Positionable2D objects have a pose.
type Positionable2D interface {
	Position2D() Pose2D
}

// Placeable2D objects can be moved, e.g. by a drive.
type Placeable2D interface {
	Positionable2D
	SetPose2D(Pose2D) Pose2D
}

// ObjectsChangeListener is told which objects moved in an iteration.
type ObjectsChangeListener interface {
	ObjectsChanged(fx.ControlContext, ...Object)
}

// ObjectsChangeSubscriber accepts ObjectsChangeListeners.
type ObjectsChangeSubscriber interface {
	SubscribeObjectsChange(ObjectsChangeListener)
}

// ObjectsChangeCaster forwards changes to every subscribed listener.
// Embed it to implement ObjectsChangeSubscriber.
type ObjectsChangeCaster struct {
	listeners []ObjectsChangeListener
}

// SubscribeObjectsChange implements ObjectsChangeSubscriber.
func (c *ObjectsChangeCaster) SubscribeObjectsChange(ln ObjectsChangeListener) {
	c.listeners = append(c.listeners, ln)
}

// ObjectsChanged implements ObjectsChangeListener.
func (c *ObjectsChangeCaster) ObjectsChanged(cc fx.ControlContext, objs ...Object) {
	for _, ln := range c.listeners {
		ln.ObjectsChanged(cc, objs...)
	}
}
