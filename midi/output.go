package midi

import (
	"errors"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// DefaultVelocity is used for every mirrored hit (input carries no velocity)
const DefaultVelocity uint8 = 100

var ErrNoPorts = errors.New("no MIDI output ports")

// Output mirrors drum hits to a MIDI output port
type Output struct {
	name    string
	channel uint8 // 0-based
	send    func(gomidi.Message) error
}

// Ports lists the names of available MIDI output ports
func Ports() ([]string, error) {
	outs, ok := scanOutPorts()
	if !ok {
		return nil, fmt.Errorf("port scan timed out after %s", scanTimeout)
	}
	names := make([]string, 0, len(outs))
	for _, o := range outs {
		names = append(names, o.Name)
	}
	return names, nil
}

// OpenOutput opens the named port on a 1-based channel. An empty name picks
// the first port that isn't a Launchpad.
func OpenOutput(name string, channel int) (*Output, error) {
	if channel < 1 || channel > 16 {
		return nil, fmt.Errorf("midi channel must be 1-16, got %d", channel)
	}

	outs, ok := scanOutPorts()
	if !ok {
		return nil, fmt.Errorf("port scan timed out after %s", scanTimeout)
	}
	port, err := pickPort(outs, name)
	if err != nil {
		return nil, err
	}

	send, err := gomidi.SendTo(port.Out)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port.Name, err)
	}
	return NewOutput(port.Name, uint8(channel-1), send), nil
}

// NewOutput wraps an already-open sender
func NewOutput(name string, channel uint8, send func(gomidi.Message) error) *Output {
	return &Output{name: name, channel: channel, send: send}
}

func pickPort(outs []namedPort, name string) (namedPort, error) {
	for _, o := range outs {
		if name == "" && !isLaunchpad(o.Name) {
			return o, nil
		}
		if name != "" && o.Name == name {
			return o, nil
		}
	}
	if name == "" {
		return namedPort{}, ErrNoPorts
	}
	return namedPort{}, fmt.Errorf("MIDI output %q not found", name)
}

// Name returns the port name
func (o *Output) Name() string {
	return o.name
}

// Send writes one event on the event's channel
func (o *Output) Send(evt Event) error {
	if evt.Channel > 15 {
		return fmt.Errorf("midi channel %d out of range", evt.Channel)
	}
	switch evt.Type {
	case NoteOn:
		return o.send(gomidi.NoteOn(evt.Channel, evt.Note, evt.Velocity))
	case NoteOff:
		return o.send(gomidi.NoteOff(evt.Channel, evt.Note))
	default:
		return fmt.Errorf("unsupported event type 0x%02x", evt.Type)
	}
}

// Hit sends a NoteOn immediately followed by NoteOff (drum modules ignore note length)
func (o *Output) Hit(note uint8) error {
	if err := o.Send(Event{Type: NoteOn, Channel: o.channel, Note: note, Velocity: DefaultVelocity}); err != nil {
		return fmt.Errorf("note on %d: %w", note, err)
	}
	if err := o.Send(Event{Type: NoteOff, Channel: o.channel, Note: note}); err != nil {
		return fmt.Errorf("note off %d: %w", note, err)
	}
	return nil
}
