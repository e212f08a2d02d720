package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Edge is the screen side the edge handle sits on.
type Edge string

const (
	EdgeLeft  Edge = "left"
	EdgeRight Edge = "right"
)

// ShellPrefs are the overlay shell's persisted preferences. The core only
// reads them; the shell owns editing and persistence.
type ShellPrefs struct {
	EdgePosition       Edge     `yaml:"edge_position" toml:"edge_position"`
	VerticalOffset     int      `yaml:"vertical_offset" toml:"vertical_offset"`
	HandleWidth        int      `yaml:"handle_width" toml:"handle_width"`
	HandleHeight       int      `yaml:"handle_height" toml:"handle_height"`
	HandleOpacity      int      `yaml:"handle_opacity" toml:"handle_opacity"`
	PanelOpacity       int      `yaml:"panel_opacity" toml:"panel_opacity"`
	PanelHeightPercent int      `yaml:"panel_height_percent" toml:"panel_height_percent"`
	PinnedApps         []string `yaml:"pinned_apps" toml:"pinned_apps"`
}

// DefaultShellPrefs mirrors the shell's factory defaults.
func DefaultShellPrefs() ShellPrefs {
	return ShellPrefs{
		EdgePosition:       EdgeLeft,
		VerticalOffset:     50,
		HandleWidth:        20,
		HandleHeight:       300,
		HandleOpacity:      255,
		PanelOpacity:       240,
		PanelHeightPercent: 70,
	}
}

// LoadShellPrefs reads preferences from a YAML (.yaml, .yml) or TOML (.toml)
// file. Keys missing from the file keep their defaults. An empty path
// returns the defaults.
func LoadShellPrefs(path string) (ShellPrefs, error) {
	prefs := DefaultShellPrefs()
	if path == "" {
		return prefs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs, fmt.Errorf("failed to read shell prefs: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &prefs)
	case ".toml":
		err = toml.Unmarshal(data, &prefs)
	default:
		return DefaultShellPrefs(), fmt.Errorf("unsupported shell prefs format %q", ext)
	}
	if err != nil {
		return DefaultShellPrefs(), fmt.Errorf("failed to parse shell prefs %s: %w", path, err)
	}

	return prefs.normalized(), nil
}

// IsPinned reports whether the package is pinned in the picker.
func (p ShellPrefs) IsPinned(pkg string) bool {
	for _, pinned := range p.PinnedApps {
		if pinned == pkg {
			return true
		}
	}
	return false
}

func (p ShellPrefs) normalized() ShellPrefs {
	if p.EdgePosition != EdgeRight {
		p.EdgePosition = EdgeLeft
	}
	p.VerticalOffset = clampInt(p.VerticalOffset, 0, 100)
	p.HandleOpacity = clampInt(p.HandleOpacity, 0, 255)
	p.PanelOpacity = clampInt(p.PanelOpacity, 0, 255)
	p.PanelHeightPercent = clampInt(p.PanelHeightPercent, 10, 100)
	if p.HandleWidth <= 0 {
		p.HandleWidth = DefaultShellPrefs().HandleWidth
	}
	if p.HandleHeight <= 0 {
		p.HandleHeight = DefaultShellPrefs().HandleHeight
	}
	return p
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
