package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"go-drumkit/config"
	"go-drumkit/debug"
	"go-drumkit/drum"
	"go-drumkit/kit"
	"go-drumkit/midi"
	"go-drumkit/theme"
	"go-drumkit/widgets"
)

// DefaultFlash is how long a pad stays lit after a hit
const DefaultFlash = 150 * time.Millisecond

type Model struct {
	Kit   *drum.Kit
	Theme *theme.Theme

	pads  []kit.Pad
	keys  keyMap
	help  help.Model
	zones *zone.Manager

	flash time.Duration
	lit   map[string]int // pad key -> flash generation, 0 = dark

	// optional collaborators
	deviceMgr  *midi.DeviceManager
	feedback   *midi.Feedback
	outputName string
	configCh   <-chan *config.Config
	onConfig   func(*config.Config)

	launchpad string
	quitting  bool
	width     int
}

// Option configures a Model
type Option func(*Model)

// WithFlash sets how long a pad stays lit after a hit
func WithFlash(d time.Duration) Option {
	return func(m *Model) { m.flash = d }
}

// WithDevices enables Launchpad hot-plug and LED feedback
func WithDevices(dm *midi.DeviceManager, fb *midi.Feedback) Option {
	return func(m *Model) {
		m.deviceMgr = dm
		m.feedback = fb
	}
}

// WithOutputName shows the MIDI output port in the status line
func WithOutputName(name string) Option {
	return func(m *Model) { m.outputName = name }
}

// WithConfigUpdates applies reloaded config files while running
func WithConfigUpdates(ch <-chan *config.Config, apply func(*config.Config)) Option {
	return func(m *Model) {
		m.configCh = ch
		m.onConfig = apply
	}
}

// flashDoneMsg turns a pad dark again unless it was hit again since
type flashDoneMsg struct {
	key string
	gen int
}

type DeviceEventMsg midi.DeviceEvent

type ConfigMsg struct {
	Config *config.Config
}

func NewModel(k *drum.Kit, th *theme.Theme, opts ...Option) Model {
	m := Model{
		Kit:   k,
		Theme: th,
		pads:  kit.Pads(),
		keys:  newKeyMap(),
		help:  help.New(),
		zones: zone.New(),
		flash: DefaultFlash,
		lit:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForConfig(ch <-chan *config.Config) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigMsg{Config: cfg}
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.deviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.deviceMgr))
	}
	if m.configCh != nil {
		cmds = append(cmds, ListenForConfig(m.configCh))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		// A single read can carry several runes (key repeat, fast typing);
		// each one is its own keydown. Pastes are not played.
		if msg.Type == tea.KeyRunes && !msg.Alt {
			if msg.Paste {
				return m, nil
			}
			var cmds []tea.Cmd
			for _, r := range msg.Runes {
				cmds = append(cmds, m.hit(string(r)))
			}
			return m, tea.Batch(cmds...)
		}
		// Everything else is an input symbol; unmapped ones do nothing
		return m, m.hit(msg.String())

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if label, ok := m.padAt(msg); ok {
			return m, m.press(label)
		}

	case flashDoneMsg:
		if m.lit[msg.key] == msg.gen {
			delete(m.lit, msg.key)
		}

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.launchpad = event.ID
			if m.feedback != nil {
				if err := m.feedback.Attach(event.Controller); err != nil {
					debug.Log("tui", "attach %s: %v", event.ID, err)
				}
			}
		case midi.DeviceDisconnected:
			if m.launchpad == event.ID {
				m.launchpad = ""
			}
			if m.feedback != nil {
				m.feedback.Detach(event.ID)
			}
		}
		return m, ListenForDevices(m.deviceMgr)

	case ConfigMsg:
		if msg.Config != nil {
			m.flash = msg.Config.Flash
			if m.onConfig != nil {
				m.onConfig(msg.Config)
			}
			debug.Log("tui", "config reloaded: sounds_dir=%s", msg.Config.SoundsDir)
		}
		return m, ListenForConfig(m.configCh)
	}

	return m, nil
}

// hit plays the pad for a key press and lights it
func (m Model) hit(symbol string) tea.Cmd {
	if !m.Kit.Hit(symbol) {
		return nil
	}
	return m.light(symbol)
}

// press plays the pad whose label was clicked
func (m Model) press(label string) tea.Cmd {
	if !m.Kit.Press(label) {
		return nil
	}
	return m.light(label)
}

func (m Model) light(key string) tea.Cmd {
	m.lit[key]++
	gen := m.lit[key]
	if m.feedback != nil {
		if err := m.feedback.Flash(kit.Index(key)); err != nil {
			debug.Log("tui", "flash %s: %v", key, err)
		}
	}
	return tea.Tick(m.flash, func(time.Time) tea.Msg {
		return flashDoneMsg{key: key, gen: gen}
	})
}

// padAt returns the label of the pad under the mouse
func (m Model) padAt(msg tea.MouseMsg) (string, bool) {
	for _, p := range m.pads {
		if z := m.zones.Get(zoneID(p)); z != nil && z.InBounds(msg) {
			return p.Key, true
		}
	}
	return "", false
}

func zoneID(p kit.Pad) string {
	return "pad-" + p.Key
}

// Lit reports whether a pad is currently flashing
func (m Model) Lit(key string) bool {
	return m.lit[key] > 0
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	header := headerStyle.Render("go-drumkit")

	// Pads
	var cells []string
	for i, p := range m.pads {
		cell := widgets.RenderPad(widgets.PadView{
			Label:   p.Key,
			Name:    p.Name,
			Color:   m.Theme.PadColor(i, len(m.pads)),
			Flash:   m.Theme.Flash(),
			Lit:     m.Lit(p.Key),
			Counter: m.Kit.Count(p.Key),
		})
		cells = append(cells, m.zones.Mark(zoneID(p), cell))
	}
	row := widgets.RenderPadRow(cells)

	// Status line
	var status []string
	status = append(status, fmt.Sprintf("hits %d", m.Kit.Total()))
	if last, ok := m.Kit.Last(); ok {
		status = append(status, "last "+last.Name)
	}
	if m.outputName != "" {
		status = append(status, "midi "+m.outputName)
	}
	if m.launchpad != "" {
		status = append(status, "LP")
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(row)
	out.WriteString("\n\n")
	out.WriteString(statusStyle.Render(strings.Join(status, "  ")))
	out.WriteString("\n\n")
	out.WriteString(m.help.View(m.keys))

	return m.zones.Scan(out.String())
}
