package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"go-drumkit/debug"
)

// SampleRate is the rate the speaker runs at. Sources at other rates are resampled.
const SampleRate beep.SampleRate = 44100

// bufferLatency is the speaker buffer size
const bufferLatency = 100 * time.Millisecond

// playLogEvery thins the per-play debug line
const playLogEvery = 16

// resampleQuality is passed to beep.Resample (1-64, 4 is beep's recommended default)
const resampleQuality = 4

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player starts playback of a sound file and returns without waiting for it to finish
type Player interface {
	Play(file string) error
}

// SpeakerPlayer plays sound files through the system speaker.
// Files are opened and decoded on every call; nothing is cached.
type SpeakerPlayer struct {
	mu   sync.RWMutex
	root fs.FS

	initOnce sync.Once
	initErr  error

	// swapped in tests
	initSpeaker func() error
	play        func(beep.Streamer)
}

// NewSpeakerPlayer creates a player reading sound files from root
func NewSpeakerPlayer(root fs.FS) *SpeakerPlayer {
	return &SpeakerPlayer{
		root: root,
		initSpeaker: func() error {
			return speaker.Init(SampleRate, SampleRate.N(bufferLatency))
		},
		play: func(s beep.Streamer) {
			speaker.Play(s)
		},
	}
}

// SetRoot points the player at a different sounds directory
func (p *SpeakerPlayer) SetRoot(root fs.FS) {
	p.mu.Lock()
	p.root = root
	p.mu.Unlock()
}

// Play decodes file and hands it to the speaker mixer. Overlapping calls
// each get their own streamer.
func (p *SpeakerPlayer) Play(file string) error {
	p.initOnce.Do(func() {
		p.initErr = p.initSpeaker()
		if p.initErr != nil {
			debug.Log("audio", "speaker init failed: %v", p.initErr)
		}
	})
	if p.initErr != nil {
		return fmt.Errorf("init speaker: %w", p.initErr)
	}

	p.mu.RLock()
	root := p.root
	p.mu.RUnlock()

	f, err := root.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}

	stream, format, err := decode(file, f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", file, err)
	}

	var s beep.Streamer = stream
	if format.SampleRate != SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, SampleRate, stream)
	}

	p.play(beep.Seq(s, beep.Callback(func() {
		stream.Close()
	})))
	debug.LogEvery(playLogEvery, "audio", "play %s (%dHz, %dch)", file, format.SampleRate, format.NumChannels)
	return nil
}

func decode(file string, f fs.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(path.Ext(file)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Ext(file))
	}
}

// Discard accepts every call and plays nothing
type Discard struct{}

func (Discard) Play(string) error { return nil }
