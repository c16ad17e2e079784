// Package msgs defines the L1 messages of the joystick controller.
package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1/msgs"
)

// GroupJoystick is the message group of the joystick.
const GroupJoystick = msgs.GroupCustom

// TypeIDs
const (
	JoystickStatusQueryTypeID uint32 = GroupJoystick | 0x0000
	JoystickConnectTypeID     uint32 = GroupJoystick | 0x0001
	JoystickMapSpeedTypeID    uint32 = GroupJoystick | 0x0002
	JoystickStatusReplyTypeID uint32 = GroupJoystick | msgs.TypeIDMaskReply | 0x0000
	JoystickStatusEventTypeID uint32 = GroupJoystick | msgs.TypeIDKindEvent | 0x0000
)

func init() {
	msgs.Register(
		(*JoystickStatusQuery)(nil),
		(*JoystickConnect)(nil),
		(*JoystickMapSpeed)(nil),
		(*JoystickStatusReply)(nil),
		(*JoystickStatus)(nil),
	)
}

// JoystickStatus is sent as an event whenever the device, the
// connected tracer or the speed changes.
type JoystickStatus struct {
	Device     *JoystickDevice  `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Connection *JoystickConnect `protobuf:"bytes,2,opt,name=connection,proto3" json:"connection,omitempty"`
	Speed      *JoystickSpeed   `protobuf:"bytes,3,opt,name=speed,proto3" json:"speed,omitempty"`
}

// JoystickDevice is the opened joystick.
type JoystickDevice struct {
	Index uint32 `protobuf:"varint,1,opt,name=index,proto3" json:"index,omitempty"`
	Name  string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
}

// JoystickSpeed is how the speed axis maps to the tracer speed, and
// the speed last sent, -1 before any.
type JoystickSpeed struct {
	Axis      uint32 `protobuf:"varint,1,opt,name=axis,proto3" json:"axis,omitempty"`
	Max       uint32 `protobuf:"varint,2,opt,name=max,proto3" json:"max,omitempty"`
	Invert    bool   `protobuf:"varint,3,opt,name=invert,proto3" json:"invert,omitempty"`
	LastSpeed int32  `protobuf:"varint,4,opt,name=last_speed,proto3" json:"last_speed,omitempty"`
}

// JoystickStatusQuery asks for the JoystickStatus.
type JoystickStatusQuery struct{}

// JoystickStatusReply answers JoystickStatusQuery.
type JoystickStatusReply struct {
	Status *JoystickStatus `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

// JoystickConnect makes the joystick drive the tracer Type/ID found
// at RegistryURL. All fields empty disconnects.
type JoystickConnect struct {
	RegistryURL string `protobuf:"bytes,1,opt,name=registry_url,proto3" json:"registry_url,omitempty"`
	Type        string `protobuf:"bytes,2,opt,name=type,proto3" json:"type,omitempty"`
	ID          string `protobuf:"bytes,3,opt,name=id,proto3" json:"id,omitempty"`
}

// JoystickMapSpeed changes the speed axis mapping.
type JoystickMapSpeed struct {
	Axis   uint32 `protobuf:"varint,1,opt,name=axis,proto3" json:"axis,omitempty"`
	Max    uint32 `protobuf:"varint,2,opt,name=max,proto3" json:"max,omitempty"`
	Invert bool   `protobuf:"varint,3,opt,name=invert,proto3" json:"invert,omitempty"`
}

// NewMessage implements Message.
func (m *JoystickStatus) NewMessage() fx.Message { return &JoystickStatus{} }

// TypeID implements SerializableMessage.
func (m *JoystickStatus) TypeID() uint32 { return JoystickStatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickStatus) Reset() { *m = JoystickStatus{} }

// String implements proto.Message.
func (m *JoystickStatus) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (m *JoystickDevice) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickDevice) Reset() { *m = JoystickDevice{} }

// String implements proto.Message.
func (m *JoystickDevice) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (m *JoystickSpeed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickSpeed) Reset() { *m = JoystickSpeed{} }

// String implements proto.Message.
func (m *JoystickSpeed) String() string { return proto.CompactTextString(m) }

// NewMessage implements Message.
func (m *JoystickStatusQuery) NewMessage() fx.Message { return &JoystickStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *JoystickStatusQuery) TypeID() uint32 { return JoystickStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickStatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickStatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickStatusQuery) Reset() { *m = JoystickStatusQuery{} }

// String implements proto.Message.
func (m *JoystickStatusQuery) String() string { return proto.CompactTextString(m) }

// NewMessage implements Message.
func (m *JoystickStatusReply) NewMessage() fx.Message { return &JoystickStatusReply{} }

// TypeID implements SerializableMessage.
func (m *JoystickStatusReply) TypeID() uint32 { return JoystickStatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickStatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickStatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickStatusReply) Reset() { *m = JoystickStatusReply{} }

// String implements proto.Message.
func (m *JoystickStatusReply) String() string { return proto.CompactTextString(m) }

// NewMessage implements Message.
func (m *JoystickConnect) NewMessage() fx.Message { return &JoystickConnect{} }

// TypeID implements SerializableMessage.
func (m *JoystickConnect) TypeID() uint32 { return JoystickConnectTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickConnect) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickConnect) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickConnect) Reset() { *m = JoystickConnect{} }

// String implements proto.Message.
func (m *JoystickConnect) String() string { return proto.CompactTextString(m) }

// NewMessage implements Message.
func (m *JoystickMapSpeed) NewMessage() fx.Message { return &JoystickMapSpeed{} }

// TypeID implements SerializableMessage.
func (m *JoystickMapSpeed) TypeID() uint32 { return JoystickMapSpeedTypeID }

// Serializable implements SerializableMessage.
func (m *JoystickMapSpeed) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *JoystickMapSpeed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *JoystickMapSpeed) Reset() { *m = JoystickMapSpeed{} }

// String implements proto.Message.
func (m *JoystickMapSpeed) String() string { return proto.CompactTextString(m) }
