package msgs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/linetracer/pkg/framework"
)

// Typed is the envelope of every packet on an L1 pipe.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (p *Typed) ProtoMessage()  {}
func (p *Typed) Reset()         { *p = Typed{} }
func (p *Typed) String() string { return proto.CompactTextString(p) }

// SerializableMessage is a message with a registered schema.
type SerializableMessage interface {
	fx.Message
	TypeID() uint32
	Serializable() proto.Message
}

// TypedMsgHandler receives decoded messages with their envelope.
type TypedMsgHandler interface {
	HandleTypedMsg(context.Context, fx.Message, *Typed) error
}

// HandleTypedMsgFunc is func form of TypedMsgHandler.
type HandleTypedMsgFunc func(context.Context, fx.Message, *Typed) error

// HandleTypedMsg implements TypedMsgHandler.
func (f HandleTypedMsgFunc) HandleTypedMsg(ctx context.Context, msg fx.Message, typed *Typed) error {
	return f(ctx, msg, typed)
}

// ErrUnknownType is returned decoding an unregistered type ID.
type ErrUnknownType struct {
	TypeID uint32
}

func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

var (
	// ErrNotSerializable rejects messages without a schema.
	ErrNotSerializable = errors.New("not serializable message")
	// ErrUnsupportedCommand is the reply to commands nobody handled.
	ErrUnsupportedCommand = errors.New("unsupported command")
)

var (
	registryLock sync.RWMutex
	registry     = make(map[uint32]SerializableMessage)
)

func init() {
	Register((*CommandOK)(nil), (*CommandErr)(nil))
}

// Register makes the schemas decodable. Usually called with nil
// pointers from init. Registering a type ID twice panics.
func Register(schemas ...SerializableMessage) {
	registryLock.Lock()
	defer registryLock.Unlock()
	for _, s := range schemas {
		id := s.TypeID()
		if prev, exists := registry[id]; exists {
			panic(fmt.Sprintf("type %x registered by %T and %T", id, prev, s))
		}
		registry[id] = s
	}
}

// Lookup finds the schema of typeID.
func Lookup(typeID uint32) (SerializableMessage, bool) {
	registryLock.RLock()
	defer registryLock.RUnlock()
	s, ok := registry[typeID]
	return s, ok
}

// TypedFrom wraps msg into an envelope with sequence 0.
func TypedFrom(msg fx.Message) (*Typed, error) {
	s, ok := msg.(SerializableMessage)
	if !ok {
		return nil, ErrNotSerializable
	}
	data, err := proto.Marshal(s.Serializable())
	if err != nil {
		return nil, err
	}
	return &Typed{TypeId: s.TypeID(), Message: data}, nil
}

// DecodeTyped parses an envelope from a packet.
func DecodeTyped(data []byte) (*Typed, error) {
	typed := &Typed{}
	if err := proto.Unmarshal(data, typed); err != nil {
		return nil, err
	}
	return typed, nil
}

// Encode serializes the envelope.
func (p *Typed) Encode() ([]byte, error) {
	return proto.Marshal(p)
}

// Decode unwraps the message using the registered schema.
func (p *Typed) Decode() (fx.Message, error) {
	schema, ok := Lookup(p.TypeId)
	if !ok {
		return nil, &ErrUnknownType{TypeID: p.TypeId}
	}
	msg := schema.NewMessage()
	if err := proto.Unmarshal(p.Message, msg.(SerializableMessage).Serializable()); err != nil {
		return nil, err
	}
	return msg, nil
}

// IsCommand tells commands and replies from events.
func (p *Typed) IsCommand() bool { return !IsEventType(p.TypeId) }

// IsEvent tells events from commands.
func (p *Typed) IsEvent() bool { return IsEventType(p.TypeId) }

// IsReply tells replies from requests.
func (p *Typed) IsReply() bool { return IsReplyType(p.TypeId) }
