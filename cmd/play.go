package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-drumkit/drum"
	"go-drumkit/kit"
)

var (
	playGap  time.Duration
	playTail time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <symbols>...",
	Short: "Play a sequence of pads without the UI",
	Long: `Trigger pads in order, one per symbol, e.g. "drumkit play aasa".
Symbols that aren't pad keys are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().DurationVar(&playGap, "gap", 200*time.Millisecond, "time between hits")
	playCmd.Flags().DurationVar(&playTail, "tail", time.Second, "time to let the last hit ring out")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	player, _ := newPlayer(cfg)
	defer gomidi.CloseDriver()

	var opts []drum.Option
	if out := openOutput(cfg); out != nil {
		opts = append(opts, mirrorTo(out))
	}
	k := drum.NewKit(player, opts...)

	hits := playSequence(k, strings.Join(args, ""), playGap, cmd.OutOrStdout())
	if hits > 0 {
		time.Sleep(playTail)
	}
	return nil
}

// playSequence hits every symbol in seq with gap between hits and reports
// what it played. Returns the number of hits.
func playSequence(k *drum.Kit, seq string, gap time.Duration, w io.Writer) int {
	hits := 0
	for _, r := range seq {
		symbol := string(r)
		if !k.Hit(symbol) {
			continue
		}
		pad, _ := kit.Resolve(symbol)
		fmt.Fprintf(w, "%s  %s\n", pad.Key, pad.Name)
		hits++
		time.Sleep(gap)
	}
	return hits
}
