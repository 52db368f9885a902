package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
)

// LEDUpdate sets one LED on a grid controller
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8
}

// Controller is a grid controller used for visual feedback only.
// Pad presses are never read back.
type Controller interface {
	ID() string
	Type() ControllerType

	SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error // maps RGB to palette
	SetLEDBatch(updates []LEDUpdate) error
	ClearLEDs() error

	Close() error
}

// Channel modes for SetLEDRGB (use as 'channel' parameter)
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelPulse  uint8 = 2 // pulsing (fades)
)
