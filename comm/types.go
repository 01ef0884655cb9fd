package comm

import (
	"errors"
	"fmt"
)

// MaxMessageSize is the capacity of a RawMessage in bytes.
const MaxMessageSize = 256

var ErrMessageTooLong = errors.New("message too long")

// RawMessage is a fixed-capacity text buffer holding one encoded command.
// It has value semantics: sending it on a Channel copies it.
type RawMessage struct {
	data [MaxMessageSize]byte
	size int
}

func NewRawMessage(b []byte) (RawMessage, error) {
	var msg RawMessage
	if len(b) > MaxMessageSize {
		return msg, fmt.Errorf("%w: %d > %d bytes", ErrMessageTooLong, len(b), MaxMessageSize)
	}
	msg.size = copy(msg.data[:], b)
	return msg, nil
}

func (m RawMessage) Bytes() []byte {
	return m.data[:m.size]
}

func (m RawMessage) Len() int {
	return m.size
}

func (m RawMessage) String() string {
	return string(m.data[:m.size])
}
