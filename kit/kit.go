package kit

// Pad is one drum sound on the kit
type Pad struct {
	Key  string // input symbol, also the label drawn on the pad
	Name string
	File string // relative to the sounds directory
	Note uint8  // General MIDI percussion note, used for MIDI output
}

// pads is the full kit in display order. Closed set: nothing is added at runtime.
var pads = []Pad{
	{Key: "w", Name: "Crash", File: "sounds/crash.mp3", Note: 49},
	{Key: "a", Name: "Kick Bass", File: "sounds/kick-bass.mp3", Note: 36},
	{Key: "s", Name: "Snare", File: "sounds/snare.mp3", Note: 38},
	{Key: "d", Name: "Tom 1", File: "sounds/tom-1.mp3", Note: 50}, // High Tom
	{Key: "j", Name: "Tom 2", File: "sounds/tom-2.mp3", Note: 47}, // Low-Mid Tom
	{Key: "k", Name: "Tom 3", File: "sounds/tom-3.mp3", Note: 45}, // Low Tom
	{Key: "l", Name: "Tom 4", File: "sounds/tom-4.mp3", Note: 43}, // High Floor Tom
}

// Resolve returns the pad for an input symbol. Anything outside the kit is no match.
func Resolve(symbol string) (Pad, bool) {
	for _, p := range pads {
		if p.Key == symbol {
			return p, true
		}
	}
	return Pad{}, false
}

// Pads returns a copy of the kit in display order
func Pads() []Pad {
	out := make([]Pad, len(pads))
	copy(out, pads)
	return out
}

// Keys returns all pad keys in display order, e.g. "wasdjkl"
func Keys() string {
	var keys string
	for _, p := range pads {
		keys += p.Key
	}
	return keys
}

// Index returns the display position of a pad key, or -1
func Index(key string) int {
	for i, p := range pads {
		if p.Key == key {
			return i
		}
	}
	return -1
}
