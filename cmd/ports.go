package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-drumkit/midi"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI output ports hits can be mirrored to",
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	names, err := midi.Ports()
	if err != nil {
		return fmt.Errorf("listing ports: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "(no MIDI output ports)")
		return nil
	}
	for i, name := range names {
		fmt.Fprintf(out, "  %d: %s\n", i, name)
	}
	fmt.Fprintln(out, "\nSet midi.port in the config to mirror hits to one of these.")
	return nil
}
