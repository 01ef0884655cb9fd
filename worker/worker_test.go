package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/thiefmaster/lightbox/comm"
	"github.com/thiefmaster/lightbox/command"
	"github.com/thiefmaster/lightbox/led"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type pixel struct {
	index int
	color led.Color
}

// recordingStrip keeps every frame pushed by Refresh.
type recordingStrip struct {
	pending []pixel
	frames  [][]pixel
	failOn  func(index int, c led.Color) bool
}

func (s *recordingStrip) SetPixel(index int, r, g, b uint8) error {
	c := led.Color{R: r, G: g, B: b}
	if s.failOn != nil && s.failOn(index, c) {
		return errors.New("strip fault")
	}
	s.pending = append(s.pending, pixel{index, c})
	return nil
}

func (s *recordingStrip) Refresh() error {
	s.frames = append(s.frames, s.pending)
	s.pending = nil
	return nil
}

func newTestWorker(strip led.Strip) *Worker {
	engine := led.NewEngine(strip, 30)
	engine.Sleep = func(time.Duration) {}
	return New(comm.NewChannel(), engine)
}

func message(t *testing.T, s string) comm.RawMessage {
	t.Helper()
	msg, err := comm.NewRawMessage([]byte(s))
	require.NoError(t, err)
	return msg
}

func TestDefaultState(t *testing.T) {
	w := newTestWorker(&recordingStrip{})
	assert.Equal(t, led.DefaultState(), w.State())
}

func TestSetColorClampsAndFades(t *testing.T) {
	strip := &recordingStrip{}
	w := newTestWorker(strip)

	err := w.Handle(message(t, `{"cmd":234,"data":{"red":300,"green":-5,"blue":10}}`))
	require.NoError(t, err)

	state := w.State()
	assert.Equal(t, led.Color{R: 255, G: 0, B: 10}, state.Color)
	assert.Equal(t, uint8(50), state.Brightness)

	require.Len(t, strip.frames, 102)
	for i := 0; i <= 50; i++ {
		assert.Equal(t, led.Color{R: uint8(50 - i)}, strip.frames[i][0].color, "fade out frame %d", i)
		assert.Len(t, strip.frames[i], 30)
	}
	assert.Equal(t, led.Color{}, strip.frames[51][0].color)
	assert.Equal(t, led.Color{R: 50, B: 1}, strip.frames[101][29].color)
}

func TestSetColorChase(t *testing.T) {
	strip := &recordingStrip{}
	w := newTestWorker(strip)

	require.NoError(t, w.Handle(message(t, `{"cmd":237,"data":{"transitionType":2}}`)))
	assert.Empty(t, strip.frames)
	assert.Equal(t, led.TransitionChase, w.State().Transition)

	require.NoError(t, w.Handle(message(t, `{"cmd":234,"data":{"red":0,"green":255,"blue":0}}`)))
	require.Len(t, strip.frames, 30)
	for i, frame := range strip.frames {
		require.Len(t, frame, 1)
		assert.Equal(t, pixel{i, led.Color{G: 50}}, frame[0])
	}
	assert.Equal(t, led.Color{G: 255}, w.State().Color)
}

func TestSetColorWithoutTransition(t *testing.T) {
	for _, mode := range []string{"0", "7", "-3"} {
		t.Run(mode, func(t *testing.T) {
			strip := &recordingStrip{}
			w := newTestWorker(strip)

			require.NoError(t, w.Handle(message(t, `{"cmd":237,"data":{"transitionType":`+mode+`}}`)))
			require.NoError(t, w.Handle(message(t, `{"cmd":234,"data":{"red":1,"green":2,"blue":3}}`)))

			assert.Empty(t, strip.frames)
			assert.Empty(t, strip.pending)
			assert.Equal(t, led.Color{R: 1, G: 2, B: 3}, w.State().Color)
		})
	}
}

func TestSetBrightness(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   uint8
		frames int
		first  uint8
		last   uint8
	}{
		{"up", `{"cmd":236,"data":{"brightness":60}}`, 60, 11, 50, 60},
		{"down", `{"cmd":236,"data":{"brightness":45}}`, 45, 6, 50, 45},
		{"same", `{"cmd":236,"data":{"brightness":50}}`, 50, 1, 50, 50},
		{"clamped high", `{"cmd":236,"data":{"brightness":1000}}`, 255, 206, 50, 255},
		{"clamped low", `{"cmd":236,"data":{"brightness":-20}}`, 0, 51, 50, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			strip := &recordingStrip{}
			w := newTestWorker(strip)

			require.NoError(t, w.Handle(message(t, tc.input)))
			assert.Equal(t, tc.want, w.State().Brightness)
			assert.Equal(t, led.Color{R: 255}, w.State().Color)

			require.Len(t, strip.frames, tc.frames)
			assert.Equal(t, led.Color{R: tc.first}, strip.frames[0][0].color)
			assert.Equal(t, led.Color{R: tc.last}, strip.frames[tc.frames-1][0].color)
		})
	}
}

func TestRejectedMessagesKeepState(t *testing.T) {
	inputs := []string{
		`not json`,
		`{"cmd":`,
		`{"data":{"brightness":10}}`,
		`{"cmd":"236","data":{"brightness":10}}`,
		`{"cmd":999}`,
		`{"cmd":236,"data":{"brightness":"high"}}`,
		`{"cmd":234,"data":{"red":1,"green":2}}`,
		`{"cmd":237,"data":{"transitionType":null}}`,
	}
	strip := &recordingStrip{}
	w := newTestWorker(strip)
	for _, input := range inputs {
		require.NoError(t, w.Handle(message(t, input)), input)
		assert.Equal(t, led.DefaultState(), w.State(), input)
	}
	assert.Empty(t, strip.frames)
}

func TestStripNotReady(t *testing.T) {
	w := newTestWorker(nil)

	require.NoError(t, w.SelfTest())
	inputs := []string{
		`{"cmd":236,"data":{"brightness":200}}`,
		`{"cmd":234,"data":{"red":0,"green":0,"blue":255}}`,
		`{"cmd":237,"data":{"transitionType":0}}`,
		`{"cmd":234,"data":{"red":1,"green":2,"blue":3}}`,
	}
	for _, input := range inputs {
		require.NoError(t, w.Handle(message(t, input)), input)
		assert.Equal(t, led.DefaultState(), w.State(), input)
	}

	require.NoError(t, w.Dispatch(command.SetBrightness{Value: 10}))
	assert.Equal(t, led.DefaultState(), w.State())
}

func TestHardwareFaultKeepsState(t *testing.T) {
	strip := &recordingStrip{failOn: func(index int, c led.Color) bool { return index == 10 }}
	w := newTestWorker(strip)

	err := w.Handle(message(t, `{"cmd":236,"data":{"brightness":10}}`))
	assert.ErrorIs(t, err, led.ErrHardwareFault)
	assert.Equal(t, led.DefaultState(), w.State())

	err = w.Handle(message(t, `{"cmd":234,"data":{"red":0,"green":0,"blue":255}}`))
	assert.ErrorIs(t, err, led.ErrHardwareFault)
	assert.Equal(t, led.DefaultState(), w.State())
}

func TestSelfTest(t *testing.T) {
	strip := &recordingStrip{}
	w := newTestWorker(strip)

	require.NoError(t, w.SelfTest())
	require.Len(t, strip.frames, 30)
	for i, frame := range strip.frames {
		assert.Equal(t, []pixel{{i, led.Color{R: 50}}}, frame)
	}
	assert.Equal(t, led.DefaultState(), w.State())
}

func TestRun(t *testing.T) {
	// Green at brightness 77 marks the last message: the strip faults on it,
	// which is the only way Run returns with messages still flowing.
	strip := &recordingStrip{failOn: func(_ int, c led.Color) bool { return c.G == 77 }}
	w := newTestWorker(strip)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background())
	}()

	inputs := []string{
		`{"cmd":236,"data":{"brightness":"high"}}`,
		`{"cmd":999}`,
		`not json`,
		`{"cmd":236,"data":{"brightness":77}}`,
		`{"cmd":237,"data":{"transitionType":2}}`,
		`{"cmd":234,"data":{"red":0,"green":255,"blue":0}}`,
	}
	for _, input := range inputs {
		require.NoError(t, w.channel.Send(context.Background(), message(t, input)))
	}

	select {
	case err := <-done:
		assert.ErrorIs(t, err, led.ErrHardwareFault)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Equal(t, led.State{Color: led.Color{R: 255}, Brightness: 77, Transition: led.TransitionChase}, w.State())
	assert.Len(t, strip.frames, 28)
}

func TestRunStopsOnCancel(t *testing.T) {
	w := newTestWorker(&recordingStrip{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	require.NoError(t, w.channel.Send(ctx, message(t, `{"cmd":237,"data":{"transitionType":0}}`)))
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}
