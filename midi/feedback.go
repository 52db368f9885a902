package midi

import (
	"sync"
	"time"
)

// padRow is the grid row the kit is laid out on (bottom row)
const padRow = 0

// Feedback shows the kit on a Launchpad: one lit pad per drum, which
// pulses when that drum is hit.
type Feedback struct {
	mu     sync.Mutex
	ctrl   Controller
	colors [][3]uint8
	flash  [3]uint8
	hold   time.Duration
	timers map[int]*time.Timer
}

// NewFeedback creates LED feedback for len(colors) pads
func NewFeedback(colors [][3]uint8, flash [3]uint8, hold time.Duration) *Feedback {
	return &Feedback{
		colors: colors,
		flash:  flash,
		hold:   hold,
		timers: make(map[int]*time.Timer),
	}
}

// Attach switches feedback to ctrl (nil detaches) and paints the kit
func (f *Feedback) Attach(ctrl Controller) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.timers {
		t.Stop()
		delete(f.timers, i)
	}
	f.ctrl = ctrl
	if ctrl == nil {
		return nil
	}

	updates := make([]LEDUpdate, 0, len(f.colors))
	for i, c := range f.colors {
		updates = append(updates, LEDUpdate{Row: padRow, Col: i, Color: c, Channel: ChannelStatic})
	}
	return ctrl.SetLEDBatch(updates)
}

// Detach forgets the controller if it has the given ID
func (f *Feedback) Detach(id string) {
	f.mu.Lock()
	if f.ctrl != nil && f.ctrl.ID() == id {
		for i, t := range f.timers {
			t.Stop()
			delete(f.timers, i)
		}
		f.ctrl = nil
	}
	f.mu.Unlock()
}

// SetHold changes how long later flashes last
func (f *Feedback) SetHold(d time.Duration) {
	f.mu.Lock()
	f.hold = d
	f.mu.Unlock()
}

// Hold returns the current flash duration
func (f *Feedback) Hold() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hold
}

// Flash pulses pad i in the flash color and restores it after the hold time.
// A second hit before the restore extends the flash.
func (f *Feedback) Flash(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ctrl == nil || i < 0 || i >= len(f.colors) {
		return nil
	}

	if t, ok := f.timers[i]; ok {
		t.Stop()
	}
	ctrl := f.ctrl
	var t *time.Timer
	t = time.AfterFunc(f.hold, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.ctrl != ctrl || f.timers[i] != t {
			return
		}
		delete(f.timers, i)
		ctrl.SetLEDRGB(padRow, i, f.colors[i], ChannelStatic)
	})
	f.timers[i] = t

	return ctrl.SetLEDRGB(padRow, i, f.flash, ChannelPulse)
}

// Attached reports whether a controller is receiving feedback
func (f *Feedback) Attached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctrl != nil
}
