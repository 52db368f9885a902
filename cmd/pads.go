package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go-drumkit/kit"
	"go-drumkit/widgets"
)

var padsCmd = &cobra.Command{
	Use:   "pads",
	Short: "List pad keys and their sounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		printPads(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(padsCmd)
}

func printPads(w io.Writer) {
	var pads []widgets.KeyBinding
	for _, p := range kit.Pads() {
		pads = append(pads, widgets.KeyBinding{
			Key:  p.Key,
			Desc: fmt.Sprintf("%-10s %-22s note %d", p.Name, p.File, p.Note),
		})
	}

	fmt.Fprintln(w, widgets.RenderKeyHelp([]widgets.KeySection{
		{Title: "Pads", Keys: pads},
		{Title: "Controls", Keys: []widgets.KeyBinding{
			{Key: "click", Desc: "play the pad under the mouse"},
			{Key: "?", Desc: "toggle help"},
			{Key: "esc ctrl+c", Desc: "quit"},
		}},
	}))
}
