// Package audio plays the looping background track through the system speaker.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/tickengine/internal/core"
)

// ErrUnsupportedFormat is returned for music files that are neither MP3 nor WAV.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// Options configures the speaker and the track.
type Options struct {
	Path          string
	SampleRate    int
	BufferSamples int
	// Volume is in powers of two: 0 plays unchanged, -1 halves the amplitude.
	Volume float64
	Logger *log.Logger
}

// Music is a track looping forever once played.
type Music struct {
	mu      sync.Mutex
	source  beep.StreamSeekCloser
	ctrl    *beep.Ctrl
	logger  *log.Logger
	playing bool
	closed  bool
}

// Open initializes the speaker and decodes the track. A failure leaves the
// speaker untouched; callers continue without music.
func Open(opts Options) (*Music, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rate %d", opts.SampleRate)
	}
	if opts.BufferSamples <= 0 {
		return nil, fmt.Errorf("audio: invalid buffer size %d", opts.BufferSamples)
	}

	source, format, err := decodeFile(opts.Path)
	if err != nil {
		return nil, err
	}

	rate := beep.SampleRate(opts.SampleRate)
	if err := speaker.Init(rate, opts.BufferSamples); err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}

	opts.Logger.Debug("music opened",
		"path", opts.Path,
		"track_rate", int(format.SampleRate),
		"speaker_rate", opts.SampleRate,
		"buffer", opts.BufferSamples)

	return &Music{
		source: source,
		ctrl:   &beep.Ctrl{Streamer: loopStream(source, format.SampleRate, rate, opts.Volume)},
		logger: opts.Logger,
	}, nil
}

func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: cannot open %s: %w", path, err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: cannot decode %s: %w", path, err)
	}
	return s, format, nil
}

// loopStream repeats source forever at the speaker rate and volume.
func loopStream(source beep.StreamSeeker, from, to beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer = beep.Loop(-1, source)
	if from != to {
		s = beep.Resample(4, from, to, s)
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: volume}
}

// Play starts the loop. Calling it again resumes a paused track.
func (m *Music) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("audio: music closed")
	}
	if m.playing {
		speaker.Lock()
		m.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}
	speaker.Play(m.ctrl)
	m.playing = true
	return nil
}

// Close stops playback, releases the decoder and shuts the speaker down.
func (m *Music) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	speaker.Clear()
	speaker.Close()
	if err := m.source.Close(); err != nil {
		return fmt.Errorf("audio: close track: %w", err)
	}
	return nil
}

// Nop is the silent track used when audio is disabled or unavailable.
type Nop struct{}

func (Nop) Play() error  { return nil }
func (Nop) Close() error { return nil }

var (
	_ core.Music = (*Music)(nil)
	_ core.Music = Nop{}
)
