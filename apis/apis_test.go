package apis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thiefmaster/lightbox/comm"
)

func receive(t *testing.T, ch *comm.Channel) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg, err := ch.Receive(ctx)
	require.NoError(t, err)
	return msg.String()
}
