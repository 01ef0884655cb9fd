package comm

import "context"

// Capacity is the number of unconsumed messages a Channel holds before
// Send blocks.
const Capacity = 5

// Channel is the bounded FIFO between the producers and the worker. It never
// drops a message; a full channel blocks the producer instead.
type Channel struct {
	messages chan RawMessage
}

func NewChannel() *Channel {
	return &Channel{messages: make(chan RawMessage, Capacity)}
}

// Send blocks while the channel is full. It only fails if ctx is done first.
func (c *Channel) Send(ctx context.Context, msg RawMessage) error {
	select {
	case c.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit copies b into a RawMessage and sends it.
func (c *Channel) Submit(ctx context.Context, b []byte) error {
	msg, err := NewRawMessage(b)
	if err != nil {
		return err
	}
	return c.Send(ctx, msg)
}

// Receive blocks until a message is available or ctx is done.
func (c *Channel) Receive(ctx context.Context) (RawMessage, error) {
	select {
	case msg := <-c.messages:
		return msg, nil
	case <-ctx.Done():
		return RawMessage{}, ctx.Err()
	}
}

func (c *Channel) Len() int {
	return len(c.messages)
}

func (c *Channel) Cap() int {
	return cap(c.messages)
}
