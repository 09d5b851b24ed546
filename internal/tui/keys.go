package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Reset    key.Binding
	NextView key.Binding
	PrevView key.Binding
	Up       key.Binding
	Down     key.Binding
	Less     key.Binding
	More     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Less:     key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←/-", "shorter")),
		More:     key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→/+", "longer")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpKeys lists the bindings that apply to a view
type helpKeys struct {
	bindings []key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding  { return h.bindings }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h.bindings} }

func (k keyMap) forView(v viewMode) helpKeys {
	switch v {
	case settingsView:
		return helpKeys{[]key.Binding{k.Up, k.Down, k.Less, k.More, k.NextView, k.Quit}}
	case historyView:
		return helpKeys{[]key.Binding{k.Up, k.Down, k.NextView, k.Quit}}
	default:
		return helpKeys{[]key.Binding{k.Toggle, k.Reset, k.NextView, k.Quit}}
	}
}
