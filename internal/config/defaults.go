package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:      "Game Engine v0.1",
			Width:      1280,
			Height:     720,
			Fullscreen: true,
		},
		Loop: LoopConfig{
			FixedStepMs:    10,
			FPSCap:         0,
			MaxFrameTimeMs: 0,
		},
		Display: DisplayConfig{
			Backend:           string(BackendSDL),
			RefreshPolicy:     "clamp",
			FallbackRefreshHz: 60,
			TerminalRefreshHz: 30,
		},
		Font: FontConfig{
			Path:            "res/font/roboto.ttf",
			Size:            25,
			FullscreenScale: 1.5,
		},
		Text: TextConfig{
			Content: "some random text",
			X:       0.5,
			Y:       0.77,
			Align:   "center",
			Color:   []int{255, 255, 255},
		},
		Audio: AudioConfig{
			Enabled:       true,
			Music:         "res/mus/main.mp3",
			SampleRate:    44100,
			BufferSamples: 1024,
			Volume:        0,
		},
		Input: InputConfig{
			FullscreenKey: "f",
		},
	}
}
