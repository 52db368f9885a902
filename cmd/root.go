// Package cmd holds the drumkit command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-drumkit/audio"
	"go-drumkit/config"
	"go-drumkit/debug"
	"go-drumkit/drum"
	"go-drumkit/kit"
	"go-drumkit/midi"
	"go-drumkit/theme"
	"go-drumkit/tui"
)

var (
	cfgFile   string
	soundsDir string
	mute      bool
	debugFlag bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "drumkit",
	Short: "Play drum sounds from the keyboard",
	Long: `A terminal drum kit. Press w a s d j k l (or click a pad) to play
crash, kick, snare and four toms.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/go-drumkit/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&soundsDir, "sounds", "", "directory containing sounds/*.mp3")
	rootCmd.PersistentFlags().BoolVar(&mute, "mute", false, "don't open the speaker")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a debug log to "+config.DebugLogPath())
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// setup loads config and applies flag overrides
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("sounds") {
		loaded.SoundsDir = soundsDir
	}
	if cmd.Flags().Changed("mute") {
		loaded.Mute = mute
	}
	if cmd.Flags().Changed("debug") {
		loaded.Debug = debugFlag
	}
	cfg = loaded

	if cfg.Debug {
		if err := debug.Enable(config.DebugLogPath()); err != nil {
			return fmt.Errorf("enabling debug log: %w", err)
		}
	}
	debug.Log("cli", "sounds_dir=%s mute=%v midi=%v", cfg.SoundsDir, cfg.Mute, cfg.MIDI.Enabled)
	return nil
}

// newPlayer picks the playback backend for the loaded config
func newPlayer(c *config.Config) (audio.Player, *audio.SpeakerPlayer) {
	if c.Mute {
		return audio.Discard{}, nil
	}
	sp := audio.NewSpeakerPlayer(os.DirFS(c.SoundsDir))
	return sp, sp
}

// openOutput opens the MIDI mirror if enabled. Failure is not fatal: the kit
// still plays through the speaker.
func openOutput(c *config.Config) *midi.Output {
	if !c.MIDI.Enabled {
		return nil
	}
	out, err := midi.OpenOutput(c.MIDI.Port, c.MIDI.Channel)
	if err != nil {
		debug.Log("midi", "open output: %v", err)
		fmt.Fprintf(os.Stderr, "midi output disabled: %v\n", err)
		return nil
	}
	return out
}

// mirrorTo sends every hit to out
func mirrorTo(out *midi.Output) drum.Option {
	return drum.WithHitListener(func(p kit.Pad) {
		if err := out.Hit(p.Note); err != nil {
			debug.Log("midi", "mirror %s: %v", p.Key, err)
		}
	})
}

// applyReload re-points the running kit at a reloaded config
func applyReload(speaker *audio.SpeakerPlayer, fb *midi.Feedback) func(*config.Config) {
	return func(c *config.Config) {
		if speaker != nil {
			speaker.SetRoot(os.DirFS(c.SoundsDir))
		}
		if fb != nil {
			fb.SetHold(c.Flash)
		}
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	th, err := theme.Load(cfg.Palette)
	if err != nil {
		return fmt.Errorf("loading palette: %w", err)
	}
	defer gomidi.CloseDriver()

	player, speaker := newPlayer(cfg)

	var kitOpts []drum.Option
	var opts []tui.Option
	opts = append(opts, tui.WithFlash(cfg.Flash))

	if out := openOutput(cfg); out != nil {
		kitOpts = append(kitOpts, mirrorTo(out))
		opts = append(opts, tui.WithOutputName(out.Name()))
	}
	k := drum.NewKit(player, kitOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fb *midi.Feedback
	if cfg.MIDI.Launchpad {
		pads := kit.Pads()
		colors := make([][3]uint8, len(pads))
		for i := range pads {
			colors[i] = th.PadRGB(i, len(pads))
		}
		fb = midi.NewFeedback(colors, th.FlashRGB(), cfg.Flash)

		deviceMgr := midi.NewDeviceManager()
		go deviceMgr.Run(ctx)
		opts = append(opts, tui.WithDevices(deviceMgr, fb))
	}

	// Live reload only makes sense for a file that exists
	updates := make(chan *config.Config, 1)
	err = config.Watch(cfgFile, func(c *config.Config) {
		select {
		case updates <- c:
		default:
		}
	}, func(err error) {
		debug.Log("config", "reload: %v", err)
	})
	if err == nil {
		opts = append(opts, tui.WithConfigUpdates(updates, applyReload(speaker, fb)))
	}

	m := tui.NewModel(k, th, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
