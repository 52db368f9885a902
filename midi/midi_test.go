package midi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// capture records every message handed to a sender
type capture struct {
	mu   sync.Mutex
	msgs []gomidi.Message
	err  error
}

func (c *capture) send(msg gomidi.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return c.err
}

func (c *capture) messages() []gomidi.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]gomidi.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// fakeController records LED calls
type fakeController struct {
	id     string
	mu     sync.Mutex
	leds   map[[2]int][3]uint8
	modes  map[[2]int]uint8
	closed bool
}

func newFakeController(id string) *fakeController {
	return &fakeController{id: id, leds: make(map[[2]int][3]uint8), modes: make(map[[2]int]uint8)}
}

func (f *fakeController) ID() string           { return f.id }
func (f *fakeController) Type() ControllerType { return ControllerLaunchpad }

func (f *fakeController) SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leds[[2]int{row, col}] = rgb
	f.modes[[2]int{row, col}] = channel
	return nil
}

func (f *fakeController) SetLEDBatch(updates []LEDUpdate) error {
	for _, u := range updates {
		f.SetLEDRGB(u.Row, u.Col, u.Color, u.Channel)
	}
	return nil
}

func (f *fakeController) ClearLEDs() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leds = make(map[[2]int][3]uint8)
	return nil
}

func (f *fakeController) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeController) mode(row, col int) uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modes[[2]int{row, col}]
}

func (f *fakeController) led(row, col int) [3]uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leds[[2]int{row, col}]
}

func TestOutput_HitSendsNoteOnThenOff(t *testing.T) {
	c := &capture{}
	out := NewOutput("test", 9, c.send)

	require.NoError(t, out.Hit(38))

	msgs := c.messages()
	require.Len(t, msgs, 2)

	var ch, key, vel uint8
	require.True(t, msgs[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(9), ch)
	assert.Equal(t, uint8(38), key)
	assert.Equal(t, DefaultVelocity, vel)

	require.True(t, msgs[1].GetNoteOff(&ch, &key, &vel))
	assert.Equal(t, uint8(38), key)
}

func TestOutput_SendError(t *testing.T) {
	c := &capture{err: errors.New("port closed")}
	out := NewOutput("test", 0, c.send)

	err := out.Hit(36)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "note on 36")
}

func TestOutput_UnsupportedEvent(t *testing.T) {
	out := NewOutput("test", 0, (&capture{}).send)
	assert.Error(t, out.Send(Event{Type: 0xB0}))
	assert.Error(t, out.Send(Event{Type: NoteOn, Channel: 16, Note: 36}))
}

func TestOutput_SendUsesEventChannel(t *testing.T) {
	c := &capture{}
	out := NewOutput("test", 9, c.send)

	require.NoError(t, out.Send(Event{Type: NoteOn, Channel: 3, Note: 42, Velocity: 64}))

	var ch, key, vel uint8
	require.True(t, c.messages()[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(3), ch)
	assert.Equal(t, uint8(42), key)
}

func TestPickPort(t *testing.T) {
	ports := []namedPort{
		{Name: "Launchpad X LPX MIDI"},
		{Name: "IAC Driver Bus 1"},
		{Name: "TR-8S"},
	}

	p, err := pickPort(ports, "")
	require.NoError(t, err)
	assert.Equal(t, "IAC Driver Bus 1", p.Name, "empty name skips Launchpads")

	p, err = pickPort(ports, "TR-8S")
	require.NoError(t, err)
	assert.Equal(t, "TR-8S", p.Name)

	_, err = pickPort(ports, "missing")
	assert.Error(t, err)

	_, err = pickPort(ports[:1], "")
	assert.ErrorIs(t, err, ErrNoPorts)
}

func TestLaunchpad_ProgrammerModeOnOpen(t *testing.T) {
	c := &capture{}
	newLaunchpad("lp", c.send)

	msgs := c.messages()
	require.Len(t, msgs, 2)
	var data []byte
	require.True(t, msgs[0].GetSysEx(&data))
	assert.Equal(t, []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}, data)
}

func TestLaunchpad_SetLEDBatch(t *testing.T) {
	c := &capture{}
	lp := newLaunchpad("lp", c.send)
	before := len(c.messages())

	require.NoError(t, lp.SetLEDBatch([]LEDUpdate{
		{Row: 0, Col: 0, Color: [3]uint8{255, 255, 255}},
		{Row: 0, Col: 6, Color: [3]uint8{255, 0, 0}},
	}))

	msgs := c.messages()[before:]
	require.Len(t, msgs, 2)

	var ch, key, vel uint8
	require.True(t, msgs[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(11), key)
	assert.Equal(t, uint8(119), vel, "white")

	require.True(t, msgs[1].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(17), key)
	assert.Equal(t, uint8(5), vel, "red")
}

func TestRowColToNote(t *testing.T) {
	assert.Equal(t, uint8(11), rowColToNote(0, 0))
	assert.Equal(t, uint8(88), rowColToNote(7, 7))
	assert.Equal(t, uint8(91), rowColToNote(8, 0))
}

func TestMapRGBToLaunchpad(t *testing.T) {
	assert.Equal(t, uint8(0), mapRGBToLaunchpad([3]uint8{0, 0, 0}))
	assert.Equal(t, uint8(21), mapRGBToLaunchpad([3]uint8{0, 250, 0}))
	assert.Equal(t, uint8(119), mapRGBToLaunchpad([3]uint8{250, 250, 250}))
}

func TestIsLaunchpad(t *testing.T) {
	assert.True(t, isLaunchpad("Launchpad X LPX MIDI"))
	assert.False(t, isLaunchpad("Launchpad X LPX DAW"))
	assert.False(t, isLaunchpad("IAC Driver Bus 1"))
}

func TestFeedback_AttachPaintsKit(t *testing.T) {
	colors := [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	fb := NewFeedback(colors, [3]uint8{255, 255, 255}, time.Hour)
	ctrl := newFakeController("lp")

	require.NoError(t, fb.Attach(ctrl))
	assert.True(t, fb.Attached())
	for i, c := range colors {
		assert.Equal(t, c, ctrl.led(0, i))
	}
}

func TestFeedback_FlashRestores(t *testing.T) {
	colors := [][3]uint8{{255, 0, 0}, {0, 255, 0}}
	white := [3]uint8{255, 255, 255}
	fb := NewFeedback(colors, white, 20*time.Millisecond)
	ctrl := newFakeController("lp")
	require.NoError(t, fb.Attach(ctrl))

	require.NoError(t, fb.Flash(1))
	assert.Equal(t, white, ctrl.led(0, 1))
	assert.Equal(t, ChannelPulse, ctrl.mode(0, 1), "the hit pad pulses")

	assert.Eventually(t, func() bool {
		return ctrl.led(0, 1) == colors[1] && ctrl.mode(0, 1) == ChannelStatic
	}, time.Second, 5*time.Millisecond)
}

func TestFeedback_SetHold(t *testing.T) {
	colors := [][3]uint8{{255, 0, 0}}
	white := [3]uint8{255, 255, 255}
	fb := NewFeedback(colors, white, time.Hour)
	ctrl := newFakeController("lp")
	require.NoError(t, fb.Attach(ctrl))

	fb.SetHold(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, fb.Hold())

	require.NoError(t, fb.Flash(0))
	assert.Eventually(t, func() bool {
		return ctrl.led(0, 0) == colors[0]
	}, time.Second, 5*time.Millisecond, "new hold applies to the next flash")
}

func TestFeedback_NoControllerIsNoop(t *testing.T) {
	fb := NewFeedback([][3]uint8{{1, 2, 3}}, [3]uint8{}, time.Millisecond)
	assert.NoError(t, fb.Flash(0))
	assert.NoError(t, fb.Flash(5))
	assert.False(t, fb.Attached())
}

func TestFeedback_Detach(t *testing.T) {
	fb := NewFeedback([][3]uint8{{1, 2, 3}}, [3]uint8{}, time.Hour)
	require.NoError(t, fb.Attach(newFakeController("lp")))

	fb.Detach("other")
	assert.True(t, fb.Attached())
	fb.Detach("lp")
	assert.False(t, fb.Attached())
}

func (dm *DeviceManager) connected() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.controllers)
}

func TestDeviceManager_ConnectAndDisconnect(t *testing.T) {
	var mu sync.Mutex
	ports := []namedPort{{Name: "Launchpad X LPX MIDI"}, {Name: "IAC Driver Bus 1"}}

	dm := NewDeviceManager()
	dm.pollRate = 10 * time.Millisecond
	dm.outPorts = func() ([]namedPort, bool) {
		mu.Lock()
		defer mu.Unlock()
		return append([]namedPort(nil), ports...), true
	}
	ctrl := newFakeController("Launchpad X LPX MIDI")
	dm.open = func(id string, out drivers.Out) (Controller, error) {
		return ctrl, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dm.Run(ctx)

	evt := <-dm.Events()
	assert.Equal(t, DeviceConnected, evt.Type)
	assert.Equal(t, "Launchpad X LPX MIDI", evt.ID)
	assert.Equal(t, 1, dm.connected())

	mu.Lock()
	ports = ports[1:]
	mu.Unlock()

	evt = <-dm.Events()
	assert.Equal(t, DeviceDisconnected, evt.Type)
	assert.True(t, ctrl.closed)
	assert.Zero(t, dm.connected())
}

func TestDeviceManager_ScanTimeoutSkips(t *testing.T) {
	dm := NewDeviceManager()
	dm.outPorts = func() ([]namedPort, bool) { return nil, false }
	dm.open = func(id string, out drivers.Out) (Controller, error) {
		t.Fatal("open must not be called")
		return nil, nil
	}

	dm.scan()
	assert.Zero(t, dm.connected())
}
