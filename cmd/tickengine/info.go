package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tickengine/internal/config"
	"github.com/vovakirdan/tickengine/internal/pacer"
	"github.com/vovakirdan/tickengine/internal/storage"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved configuration and frame timing",
	Long: `Load the configuration the way 'run' does and print what the loop would use.

The frame interval shown assumes the display reports the fallback rate unless
loop.fps_cap is set; the real rate is only known once a display is open.

Examples:
  tickengine info
  tickengine info --config ./configs/engine.yaml`,
	Run: runInfo,
}

var (
	infoTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	infoKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(18)
	infoBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func runInfo(_ *cobra.Command, _ []string) {
	cfg, source, err := config.Load(flagConfigPath)
	if err != nil {
		fail("%v", err)
	}

	fmt.Println(infoTitle.Render("tickengine") + " " + cfg.Window.Title)
	fmt.Println()
	fmt.Println(infoBox.Render(strings.Join(infoLines(cfg, source), "\n")))

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return
	}
	defer store.Close()

	totals, err := store.Totals()
	if err != nil || totals.Sessions == 0 {
		return
	}
	fmt.Println()
	fmt.Println(infoBox.Render(strings.Join([]string{
		infoRow("sessions", fmt.Sprintf("%d", totals.Sessions)),
		infoRow("frames", fmt.Sprintf("%d", totals.Frames)),
		infoRow("steps", fmt.Sprintf("%d", totals.Steps)),
		infoRow("run time", totals.Duration.String()),
		infoRow("last run", totals.LastRun.Format("2006-01-02 15:04")),
	}, "\n")))
}

// infoLines renders the configuration summary.
func infoLines(cfg config.Config, source string) []string {
	hz := cfg.Display.FallbackRefreshHz
	rateSource := "fallback"
	if cfg.Loop.FPSCap > 0 {
		hz = cfg.Loop.FPSCap
		rateSource = "fps cap"
	}
	interval := "invalid"
	if ms, err := pacer.FrameInterval(hz); err == nil {
		interval = fmt.Sprintf("%.3f ms (%d Hz, %s)", ms, hz, rateSource)
	}

	sizes := cfg.FontSizes()
	mode := "windowed"
	if cfg.Window.Fullscreen {
		mode = "fullscreen"
	}
	audio := "off"
	if cfg.Audio.Enabled {
		audio = fmt.Sprintf("%s @ %d Hz", cfg.Audio.Music, cfg.Audio.SampleRate)
	}

	return []string{
		infoRow("config", source),
		infoRow("backend", string(cfg.BackendName())),
		infoRow("window", fmt.Sprintf("%dx%d, %s", cfg.Window.Width, cfg.Window.Height, mode)),
		infoRow("fixed step", fmt.Sprintf("%g ms", cfg.Loop.FixedStepMs)),
		infoRow("frame interval", interval),
		infoRow("refresh policy", string(cfg.Policy())),
		infoRow("font", fmt.Sprintf("%s %d/%d px", cfg.Font.Path, sizes.Windowed, sizes.Fullscreen)),
		infoRow("text", fmt.Sprintf("%q %s", cfg.Text.Content, cfg.TextColor().Hex())),
		infoRow("textures", fmt.Sprintf("%d", len(cfg.Textures))),
		infoRow("music", audio),
		infoRow("fullscreen key", string(cfg.FullscreenKey())),
	}
}

func infoRow(k, v string) string {
	return infoKey.Render(k) + v
}
