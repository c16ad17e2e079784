package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned when sending before the handshake completes.
	ErrNotReady = errors.New("link not in sync")
	// ErrNoReply fails a command whose reply was skipped by the board,
	// which is known once a later command is answered.
	ErrNoReply = errors.New("no reply")
	// ErrTooLong rejects packets with more than MaxDataLen bytes.
	ErrTooLong = errors.New("packet data too long")
)

// CommandError is a failure reported by the board for a command.
type CommandError struct {
	Code byte
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("board failed command %#02x", e.Code)
}
