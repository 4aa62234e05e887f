package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tickengine/internal/platform/tui"
	"github.com/vovakirdan/tickengine/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse recorded sessions",
	Long: `Show the sessions recorded by 'run' and 'serve'.

In a terminal an interactive table opens; tab switches the backend filter.
When output is piped, or with --plain, the latest sessions are printed.

Examples:
  tickengine sessions
  tickengine sessions --plain --limit 5`,
	Run: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of sessions to print with --plain")
	sessionsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain table instead of the browser")
}

func runSessions(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening session database: %v", err)
	}
	defer store.Close()

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
			height = h
		}
		if err := tui.RunSessions(store, width, height); err != nil {
			fail("%v", err)
		}
		return
	}

	sessions, err := store.RecentSessions(flagLimit)
	if err != nil {
		fail("retrieving sessions: %v", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'tickengine run' to record one.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %8s  %8s  %6s  %8s  %s\n", "Started", "Backend", "Length", "Frames", "FPS", "Steps", "End")
	fmt.Printf("  %-16s  %-8s  %8s  %8s  %6s  %8s  %s\n", "-------", "-------", "------", "------", "---", "-----", "---")
	for _, s := range sessions {
		row := tui.SessionRow(s)
		fmt.Printf("  %-16s  %-8s  %8s  %8s  %6s  %8s  %s\n",
			s.StartedAt.Format("2006-01-02 15:04"), row[1], row[2], row[3], row[4], row[5], row[6])
	}
}
