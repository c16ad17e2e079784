package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/linetracer/pkg/framework"
)

// CommandOK replies to commands which succeed without data.
type CommandOK struct{}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK { return &CommandOK{} }

func (m *CommandOK) NewMessage() fx.Message      { return &CommandOK{} }
func (m *CommandOK) TypeID() uint32              { return CommandOKTypeID }
func (m *CommandOK) Serializable() proto.Message { return m }
func (m *CommandOK) ProtoMessage()               {}
func (m *CommandOK) Reset()                      { *m = CommandOK{} }
func (m *CommandOK) String() string              { return proto.CompactTextString(m) }

// CommandErr replies to failed commands. It is an error itself.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

func (m *CommandErr) NewMessage() fx.Message      { return &CommandErr{} }
func (m *CommandErr) TypeID() uint32              { return CommandErrTypeID }
func (m *CommandErr) Serializable() proto.Message { return m }
func (m *CommandErr) ProtoMessage()               {}
func (m *CommandErr) Reset()                      { *m = CommandErr{} }
func (m *CommandErr) String() string              { return proto.CompactTextString(m) }
func (m *CommandErr) Error() string               { return m.Message }

// ReplyErr is the error carried by reply, nil unless it is a CommandErr.
func ReplyErr(reply fx.Message) error {
	if cmdErr, ok := reply.(*CommandErr); ok {
		return cmdErr
	}
	return nil
}
