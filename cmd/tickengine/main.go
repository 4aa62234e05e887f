// tickengine runs a fixed-timestep render loop on an SDL window, a terminal or
// an SSH session.
//
// Usage:
//
//	tickengine run           - Run the loop
//	tickengine info          - Show the resolved configuration and timing
//	tickengine sessions      - Browse recorded sessions
//	tickengine serve         - Start SSH server running a loop per session
//
// Global flags:
//
//	--config <path>     - Engine config YAML (default: search ~/.tickengine, ./configs)
//	--db <path>         - Session database (default: ~/.tickengine/sessions.db)
//	--log-level <lvl>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tickengine",
	Short: "Fixed-timestep render loop",
	Long: `tickengine advances a simulation in fixed 10 ms steps and renders frames
paced to the display refresh rate.

Available commands:
  run       - Run the loop on a window, a terminal or headless
  info      - Show the resolved configuration and frame timing
  sessions  - Browse recorded sessions
  serve     - Start SSH server, one loop per connection

Examples:
  tickengine run
  tickengine run --backend terminal --windowed
  tickengine run --backend headless --duration 5s
  tickengine sessions --plain
  tickengine serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tickengine/sessions.db", "Path to session database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tickengine",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
