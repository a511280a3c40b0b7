package ui

import (
	_ "embed"
	"sync"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Background   string `yaml:"background,omitempty"`
	MarginBottom int    `yaml:"marginBottom,omitempty"`
	PaddingLeft  int    `yaml:"paddingLeft,omitempty"`
}

// StylesConfig represents the complete styles configuration
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

var (
	stylesMu sync.RWMutex
	registry map[string]lipgloss.Style
	loadOnce sync.Once
)

// LoadStyles replaces the style registry with the styles in data
func LoadStyles(data []byte) error {
	var cfg StylesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to parse styles")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(map[string]lipgloss.Style, len(cfg.Styles))
	for name, def := range cfg.Styles {
		styles[name] = buildStyle(def, colors)
	}

	stylesMu.Lock()
	registry = styles
	stylesMu.Unlock()
	return nil
}

func ensureStyles() {
	loadOnce.Do(func() {
		stylesMu.RLock()
		loaded := registry != nil
		stylesMu.RUnlock()
		if loaded {
			return
		}
		if err := LoadStyles(embeddedStyles); err != nil {
			stylesMu.Lock()
			registry = map[string]lipgloss.Style{}
			stylesMu.Unlock()
		}
	})
}

// buildStyle constructs a lipgloss style from a style definition
func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}
	if def.MarginBottom > 0 {
		style = style.MarginBottom(def.MarginBottom)
	}
	if def.PaddingLeft > 0 {
		style = style.PaddingLeft(def.PaddingLeft)
	}
	return style
}

// Style safely retrieves a style from the registry. Unknown names get an
// unstyled style.
func Style(name string) lipgloss.Style {
	ensureStyles()
	stylesMu.RLock()
	defer stylesMu.RUnlock()
	if style, ok := registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// HasStyle reports whether name is registered
func HasStyle(name string) bool {
	ensureStyles()
	stylesMu.RLock()
	defer stylesMu.RUnlock()
	_, ok := registry[name]
	return ok
}
