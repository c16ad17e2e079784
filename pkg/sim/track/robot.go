package track

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/sim"
	"github.com/robotalks/linetracer/pkg/sim/physics"
	"github.com/robotalks/linetracer/pkg/sim/physics/diffdrive"
)

// Surface reflectance under lit emitters.
const (
	DefaultWhite   uint8 = 200
	DefaultBlack   uint8 = 30
	DefaultAmbient uint8 = 20
)

// Robot implements hw.Platform by sampling the Track at the sensor
// positions of a simulated body.
type Robot struct {
	Track *Track
	Drive physics.WheelDrive
	// Sensors are sensor positions in the robot frame, X ahead and
	// Y to the left, ordered left to right.
	Sensors [hw.Channels]sim.Pos2D
	Outline sim.Rect

	White, Black, Ambient uint8
	// MaxSpeed is the wheel speed in mm/s at full PWM.
	MaxSpeed float64
	// Speed is returned by ReceiveByte when nothing is queued.
	Speed byte
	Clock func() time.Time

	sim.ObjectsChangeCaster

	name    string
	lock    sync.Mutex
	pose    sim.Pose2D
	emitter bool
	left    uint8
	right   uint8
	lines   [2]string
	speeds  *hw.ByteQueue
	changed bool
}

// NewRobot creates a Robot on the track.
func NewRobot(name string, t *Track) *Robot {
	r := &Robot{
		Track:    t,
		Outline:  sim.Rect{Pos2D: sim.Pos2D{X: -60, Y: -60}, Size2D: sim.Size2D{CX: 120, CY: 120}},
		White:    DefaultWhite,
		Black:    DefaultBlack,
		Ambient:  DefaultAmbient,
		MaxSpeed: 300,
		Clock:    time.Now,
		name:     name,
		speeds:   hw.NewByteQueue(0),
		changed:  true,
	}
	r.Drive = diffdrive.New(r)
	r.SetSensorBar(60, 12)
	return r
}

// SetSensorBar places the sensors on a bar ahead of the axle.
func (r *Robot) SetSensorBar(ahead, spacing float64) {
	for n := range r.Sensors {
		r.Sensors[n] = sim.Pos2D{X: ahead, Y: float64(hw.Channels/2-n) * spacing}
	}
}

// Name implements Object.
func (r *Robot) Name() string {
	return r.name
}

// OutlineRect implements Rectangular.
func (r *Robot) OutlineRect() sim.Rect {
	return r.Outline
}

// Position2D implements Positionable2D. It is not synchronized, use
// Pose from other goroutines.
func (r *Robot) Position2D() sim.Pose2D {
	return r.pose
}

// SetPose2D implements Placeable2D.
func (r *Robot) SetPose2D(pose sim.Pose2D) sim.Pose2D {
	if pose != r.pose {
		r.changed = true
	}
	r.pose = pose
	return r.pose
}

// Place puts the robot at a pose.
func (r *Robot) Place(pose sim.Pose2D) {
	r.lock.Lock()
	defer r.lock.Unlock()
	now := r.Clock()
	r.Drive.Update(now)
	r.SetPose2D(pose)
	r.Drive.SetWheels(now, r.wheelSpeed(r.left), r.wheelSpeed(r.right))
}

// Pose returns the current pose.
func (r *Robot) Pose() sim.Pose2D {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.Drive.Update(r.Clock())
}

// SensorPos returns the sensor position on the floor at a pose.
func (r *Robot) SensorPos(pose sim.Pose2D, ch int) sim.Pos2D {
	s := r.Sensors[ch]
	cos, sin := pose.Orientation.Cos(), pose.Orientation.Sin()
	return sim.Pos2D{
		X: pose.X + s.X*cos - s.Y*sin,
		Y: pose.Y + s.X*sin + s.Y*cos,
	}
}

// ReadChannel implements hw.ADC.
func (r *Robot) ReadChannel(ctx context.Context, ch int) (uint8, error) {
	if ch < 0 || ch >= hw.Channels {
		return 0, fmt.Errorf("invalid ADC input %d", ch)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	pose := r.Drive.Update(r.Clock())
	if !r.emitter {
		return r.Ambient, nil
	}
	cov := r.Track.Coverage(r.SensorPos(pose, ch))
	reflect := float64(r.White)*(1-cov) + float64(r.Black)*cov
	return uint8(math.Min(255, math.Round(reflect)+float64(r.Ambient))), nil
}

// SetEmitter implements hw.Emitter.
func (r *Robot) SetEmitter(on bool) error {
	r.lock.Lock()
	r.emitter = on
	r.lock.Unlock()
	return nil
}

// SetLeftSpeed implements hw.Motors.
func (r *Robot) SetLeftSpeed(value uint8) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.left = value
	r.applyWheels()
	return nil
}

// SetRightSpeed implements hw.Motors.
func (r *Robot) SetRightSpeed(value uint8) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.right = value
	r.applyWheels()
	return nil
}

// Motors returns the last motor values.
func (r *Robot) Motors() (left, right uint8) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.left, r.right
}

func (r *Robot) applyWheels() {
	r.Drive.SetWheels(r.Clock(), r.wheelSpeed(r.left), r.wheelSpeed(r.right))
}

func (r *Robot) wheelSpeed(value uint8) float64 {
	return float64(value) * r.MaxSpeed / 255
}

// Feed queues speed bytes as if received from the remote.
func (r *Robot) Feed(bs ...byte) {
	for _, b := range bs {
		r.speeds.Push(b)
	}
}

// ReceiveByte implements hw.SpeedReceiver.
func (r *Robot) ReceiveByte(ctx context.Context) (byte, error) {
	if r.speeds.Len() > 0 {
		return r.speeds.ReceiveByte(ctx)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.Speed, nil
}

// WriteLine implements hw.Display.
func (r *Robot) WriteLine(row int, text string) error {
	if row < 0 || row >= len(r.lines) {
		return fmt.Errorf("invalid display row %d", row)
	}
	r.lock.Lock()
	r.lines[row] = hw.FitLine(text)
	r.lock.Unlock()
	glog.V(2).Infof("LCD[%d] %q", row, text)
	return nil
}

// Lines returns the display content.
func (r *Robot) Lines() [2]string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.lines
}

// AddToLoop implements LoopAdder.
func (r *Robot) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(r.NotifyChanges))
}

// NotifyChanges notifies object changes.
func (r *Robot) NotifyChanges(cc fx.ControlContext) error {
	r.lock.Lock()
	r.Drive.Update(r.Clock())
	changed := r.changed
	r.changed = false
	r.lock.Unlock()
	if changed {
		r.ObjectsChanged(cc, r)
	}
	return nil
}

var _ hw.Platform = (*Robot)(nil)
