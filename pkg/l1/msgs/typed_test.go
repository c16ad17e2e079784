package msgs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedCommandErr(t *testing.T) {
	typed, err := TypedFrom(NewCommandErr(errors.New("boom")))
	require.NoError(t, err)
	typed.Sequence = 42
	data, err := typed.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	assert.Equal(t, CommandErrTypeID, decoded.TypeId)
	assert.Equal(t, uint32(42), decoded.Sequence)
	assert.True(t, decoded.IsCommand())
	assert.True(t, decoded.IsReply())
	msg, err := decoded.Decode()
	require.NoError(t, err)
	assert.EqualError(t, ReplyErr(msg), "boom")
	assert.NoError(t, ReplyErr(NewCommandOK()))
}

func TestTypedUnknown(t *testing.T) {
	typed := &Typed{TypeId: GroupCustom | 0x7777}
	_, err := typed.Decode()
	require.Error(t, err)
	assert.Equal(t, GroupCustom|0x7777, err.(*ErrUnknownType).TypeID)

	_, err = TypedFrom(nil)
	assert.Equal(t, ErrNotSerializable, err)
}

func TestTypeIDKinds(t *testing.T) {
	assert.False(t, IsEventType(GroupCustom|0x0001))
	assert.False(t, IsReplyType(GroupCustom|0x0001))
	assert.True(t, IsReplyType(CommandOKTypeID))
	assert.True(t, IsEventType(GroupCustom|TypeIDKindEvent))
	// the reply bit means nothing on events.
	assert.False(t, IsReplyType(GroupCustom|TypeIDKindEvent|TypeIDMaskReply))
}

func TestRegisterTwicePanics(t *testing.T) {
	schema, ok := Lookup(CommandOKTypeID)
	require.True(t, ok)
	assert.IsType(t, (*CommandOK)(nil), schema)
	assert.Panics(t, func() { Register((*CommandOK)(nil)) })
}
