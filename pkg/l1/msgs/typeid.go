package msgs

// Type ID layout.
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
	TypeIDMaskReply uint32 = 0x00008000

	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// Groups. Custom groups count up from GroupCustom.
const (
	GroupCommand uint32 = 0x00000000
	GroupCustom  uint32 = 0x7f000000
)

// Generic replies.
const (
	CommandOKTypeID  uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID uint32 = GroupCommand | TypeIDMaskReply | 0x0001
)

// IsEventType tells whether typeID is an event.
func IsEventType(typeID uint32) bool {
	return typeID&TypeIDMaskKind == TypeIDKindEvent
}

// IsReplyType tells whether typeID is a reply to a command.
func IsReplyType(typeID uint32) bool {
	return !IsEventType(typeID) && typeID&TypeIDMaskReply != 0
}
