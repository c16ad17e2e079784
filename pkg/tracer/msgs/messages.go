// Package msgs defines the L1 messages of the line tracer.
package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1/msgs"
)

// SpeedCommand sets the base speed used in latched mode.
type SpeedCommand struct {
	Speed uint32 `protobuf:"varint,1,opt,name=speed,proto3" json:"speed,omitempty"`
}

// NewMessage implements Message.
func (m *SpeedCommand) NewMessage() fx.Message { return &SpeedCommand{} }

// TypeID implements SerializableMessage.
func (m *SpeedCommand) TypeID() uint32 { return SpeedCommandTypeID }

// Serializable implements SerializableMessage.
func (m *SpeedCommand) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SpeedCommand) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SpeedCommand) Reset() { *m = SpeedCommand{} }

// String implements proto.Message.
func (m *SpeedCommand) String() string { return proto.CompactTextString(m) }

// StatusQuery queries the latest cycle.
type StatusQuery struct {
}

// NewMessage implements Message.
func (m *StatusQuery) NewMessage() fx.Message { return &StatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StatusQuery) TypeID() uint32 { return StatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *StatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StatusQuery) Reset() { *m = StatusQuery{} }

// String implements proto.Message.
func (m *StatusQuery) String() string { return proto.CompactTextString(m) }

// StatusReply is the response for StatusQuery.
type StatusReply struct {
	Status *Status `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

// NewMessage implements Message.
func (m *StatusReply) NewMessage() fx.Message { return &StatusReply{} }

// TypeID implements SerializableMessage.
func (m *StatusReply) TypeID() uint32 { return StatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *StatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *StatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StatusReply) Reset() { *m = StatusReply{} }

// String implements proto.Message.
func (m *StatusReply) String() string { return proto.CompactTextString(m) }

// Status is an Event message reflecting the outcome of one cycle.
type Status struct {
	Values   []uint32 `protobuf:"varint,1,rep,packed,name=values,proto3" json:"values,omitempty"`
	Label    string   `protobuf:"bytes,2,opt,name=label,proto3" json:"label,omitempty"`
	Category string   `protobuf:"bytes,3,opt,name=category,proto3" json:"category,omitempty"`
	Left     uint32   `protobuf:"varint,4,opt,name=left,proto3" json:"left,omitempty"`
	Right    uint32   `protobuf:"varint,5,opt,name=right,proto3" json:"right,omitempty"`
	Matched  bool     `protobuf:"varint,6,opt,name=matched,proto3" json:"matched,omitempty"`
	Speed    uint32   `protobuf:"varint,7,opt,name=speed,proto3" json:"speed,omitempty"`
}

// NewMessage implements Message.
func (m *Status) NewMessage() fx.Message { return &Status{} }

// TypeID implements SerializableMessage.
func (m *Status) TypeID() uint32 { return StatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *Status) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// GroupTracer defines the custom group. It is one above the joystick group.
const GroupTracer = msgs.GroupCustom + 0x00010000

// TypeIDs
const (
	StatusEventTypeID  uint32 = GroupTracer | msgs.TypeIDKindEvent | 0x0000
	StatusQueryTypeID  uint32 = GroupTracer | 0x0000
	StatusReplyTypeID  uint32 = GroupTracer | msgs.TypeIDMaskReply | 0x0000
	SpeedCommandTypeID uint32 = GroupTracer | 0x0001
)

func init() {
	msgs.Register(
		(*Status)(nil),
		(*StatusQuery)(nil),
		(*StatusReply)(nil),
		(*SpeedCommand)(nil),
	)
}
