package hw

import (
	"context"

	"github.com/golang/glog"
)

// Dummy is a Platform which logs every call and reads a constant
// white surface. It is useful to dry-run the loop without hardware.
type Dummy struct {
	Reading uint8
	Speed   byte
}

// NewDummy creates a Dummy.
func NewDummy() *Dummy {
	return &Dummy{Reading: 200}
}

// ReadChannel implements ADC.
func (d *Dummy) ReadChannel(ctx context.Context, ch int) (uint8, error) {
	glog.V(3).Infof("DHW: ReadChannel %d", ch)
	return d.Reading, nil
}

// SetEmitter implements Emitter.
func (d *Dummy) SetEmitter(on bool) error {
	glog.V(3).Infof("DHW: SetEmitter %v", on)
	return nil
}

// SetLeftSpeed implements Motors.
func (d *Dummy) SetLeftSpeed(value uint8) error {
	glog.V(2).Infof("DHW: SetLeftSpeed %d", value)
	return nil
}

// SetRightSpeed implements Motors.
func (d *Dummy) SetRightSpeed(value uint8) error {
	glog.V(2).Infof("DHW: SetRightSpeed %d", value)
	return nil
}

// ReceiveByte implements SpeedReceiver.
func (d *Dummy) ReceiveByte(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return d.Speed, nil
}

// WriteLine implements Display.
func (d *Dummy) WriteLine(row int, text string) error {
	glog.Infof("DHW: LCD[%d] %q", row, text)
	return nil
}

var _ Platform = (*Dummy)(nil)
