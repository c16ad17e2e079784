// Package board drives a microcontroller board wired to the sensor bar,
// the motor driver, the display and the remote receiver. The host
// talks to the board with L0 packets over a serial port.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/l0/comm"
)

// Command codes understood by the board firmware.
const (
	CmdReadADC    byte = 0x02
	CmdSetEmitter byte = 0x04
	CmdSetMotor   byte = 0x06
	CmdWriteLine  byte = 0x08
)

// EvtSpeed carries one speed byte received from the remote.
const EvtSpeed byte = 0x82

// Wheels addressed by CmdSetMotor.
const (
	WheelLeft  byte = 0
	WheelRight byte = 1
)

// Defaults
const (
	DefaultChannelSettle = time.Millisecond
	DefaultCallTimeout   = 500 * time.Millisecond
)

// Conn is the L0 command channel, implemented by comm.Client.
type Conn interface {
	Call(ctx context.Context, code byte, data ...byte) ([]byte, error)
	Events() <-chan *comm.Packet
	Sync() <-chan bool
	Run(ctx context.Context) error
}

// Board implements hw.Platform over a Conn.
type Board struct {
	Conn Conn
	// ChannelSettle is the delay after selecting an ADC input before
	// the conversion starts. It is applied by the firmware.
	ChannelSettle time.Duration
	// CallTimeout bounds commands issued without a context.
	CallTimeout time.Duration

	speeds *hw.ByteQueue
}

// New creates a Board.
func New(conn Conn) *Board {
	return &Board{
		Conn:          conn,
		ChannelSettle: DefaultChannelSettle,
		CallTimeout:   DefaultCallTimeout,
		speeds:        hw.NewByteQueue(0),
	}
}

// Run implements Runnable. It runs the connection and dispatches
// events; it must be running for any command to complete.
func (b *Board) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- b.Conn.Run(ctx) }()
	for {
		select {
		case <-ctx.Done():
			<-errCh
			return ctx.Err()
		case err := <-errCh:
			return err
		case inSync := <-b.Conn.Sync():
			if inSync {
				glog.V(1).Info("board link in sync")
			} else {
				glog.Warning("board link lost sync")
			}
		case pkt := <-b.Conn.Events():
			b.handleEvent(pkt)
		}
	}
}

func (b *Board) handleEvent(pkt *comm.Packet) {
	if pkt.Code != EvtSpeed || len(pkt.Data) == 0 {
		glog.V(2).Infof("board event %02x ignored", pkt.Code)
		return
	}
	if b.speeds.Push(pkt.Data[0]) {
		glog.V(1).Info("speed queue full, oldest dropped")
	}
}

func (b *Board) call(code byte, data ...byte) ([]byte, error) {
	ctx := context.Background()
	if b.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.CallTimeout)
		defer cancel()
	}
	return b.Conn.Call(ctx, code, data...)
}

// ReadChannel implements hw.ADC.
func (b *Board) ReadChannel(ctx context.Context, ch int) (uint8, error) {
	if ch < 0 || ch > 0xff {
		return 0, fmt.Errorf("invalid ADC input %d", ch)
	}
	settle := b.ChannelSettle / time.Millisecond
	if settle > 0xff {
		settle = 0xff
	}
	data, err := b.Conn.Call(ctx, CmdReadADC, byte(ch), byte(settle))
	if err != nil {
		return 0, fmt.Errorf("read ADC %d: %w", ch, err)
	}
	if len(data) < 1 {
		return 0, fmt.Errorf("read ADC %d: empty reply", ch)
	}
	return data[0], nil
}

// SetEmitter implements hw.Emitter.
func (b *Board) SetEmitter(on bool) error {
	var v byte
	if on {
		v = 1
	}
	_, err := b.call(CmdSetEmitter, v)
	return err
}

// SetLeftSpeed implements hw.Motors.
func (b *Board) SetLeftSpeed(value uint8) error {
	_, err := b.call(CmdSetMotor, WheelLeft, value)
	return err
}

// SetRightSpeed implements hw.Motors.
func (b *Board) SetRightSpeed(value uint8) error {
	_, err := b.call(CmdSetMotor, WheelRight, value)
	return err
}

// ReceiveByte implements hw.SpeedReceiver.
func (b *Board) ReceiveByte(ctx context.Context) (byte, error) {
	return b.speeds.ReceiveByte(ctx)
}

// WriteLine implements hw.Display.
func (b *Board) WriteLine(row int, text string) error {
	if row < 0 || row > 1 {
		return fmt.Errorf("invalid display row %d", row)
	}
	data := append([]byte{byte(row)}, hw.FitLine(text)...)
	_, err := b.call(CmdWriteLine, data...)
	return err
}

var _ hw.Platform = (*Board)(nil)
