// Package drum wires input symbols to playback. Key presses and pad clicks
// both end up in Kit.Hit.
package drum

import (
	"sync"

	"go-drumkit/audio"
	"go-drumkit/debug"
	"go-drumkit/kit"
)

// Kit resolves input symbols and triggers playback
type Kit struct {
	player audio.Player

	mu        sync.Mutex
	listeners []func(kit.Pad)
	counts    map[string]int
	total     int
	last      *kit.Pad
}

// Option configures a Kit
type Option func(*Kit)

// WithHitListener registers fn to be called after every hit
func WithHitListener(fn func(kit.Pad)) Option {
	return func(k *Kit) {
		k.listeners = append(k.listeners, fn)
	}
}

// NewKit creates a Kit that plays through player
func NewKit(player audio.Player, opts ...Option) *Kit {
	k := &Kit{
		player: player,
		counts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// OnHit registers fn to be called after every hit
func (k *Kit) OnHit(fn func(kit.Pad)) {
	k.mu.Lock()
	k.listeners = append(k.listeners, fn)
	k.mu.Unlock()
}

// Hit plays the pad mapped to symbol. Unmapped symbols are ignored and
// return false. Each call starts its own playback; nothing is suppressed.
func (k *Kit) Hit(symbol string) bool {
	pad, ok := kit.Resolve(symbol)
	if !ok {
		return false
	}

	k.mu.Lock()
	player := k.player
	k.mu.Unlock()

	if err := player.Play(pad.File); err != nil {
		debug.Log("hit", "play %s (%s): %v", pad.Key, pad.File, err)
	}

	k.mu.Lock()
	k.counts[pad.Key]++
	k.total++
	k.last = &pad
	listeners := make([]func(kit.Pad), len(k.listeners))
	copy(listeners, k.listeners)
	k.mu.Unlock()

	for _, fn := range listeners {
		fn(pad)
	}
	return true
}

// Press handles a click on a pad. The pad's label is the lookup key, so a
// click behaves exactly like pressing that key.
func (k *Kit) Press(label string) bool {
	return k.Hit(label)
}

// SetPlayer swaps the playback backend
func (k *Kit) SetPlayer(p audio.Player) {
	k.mu.Lock()
	k.player = p
	k.mu.Unlock()
}

// Count returns how many times a pad has been hit this session
func (k *Kit) Count(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.counts[key]
}

// Total returns the number of hits across all pads
func (k *Kit) Total() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.total
}

// Last returns the most recently hit pad
func (k *Kit) Last() (kit.Pad, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.last == nil {
		return kit.Pad{}, false
	}
	return *k.last, true
}
