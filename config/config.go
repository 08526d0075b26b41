package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"termtris/types"
)

const appDir = "termtris"

var (
	cfgFile   = appDir + "/config.json"
	logFile   = appDir + "/debug.log"
	scoreFile = appDir + "/leaderboard.json"
	replayDir = appDir + "/replays"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	WellColor    int `json:"well"`
	WellColorAlt int `json:"well_alt"`
	BorderColor  int `json:"border"`
	GhostColor   int `json:"ghost"`
	GarbageColor int `json:"garbage"`
	IColor       int `json:"i"`
	OColor       int `json:"o"`
	TColor       int `json:"t"`
	SColor       int `json:"s"`
	ZColor       int `json:"z"`
	JColor       int `json:"j"`
	LColor       int `json:"l"`
}

// Cell returns the palette index used to draw c.
func (c ConfigColors) Cell(cell types.Cell) int {
	switch cell {
	case types.CellI:
		return c.IColor
	case types.CellO:
		return c.OColor
	case types.CellT:
		return c.TColor
	case types.CellS:
		return c.SColor
	case types.CellZ:
		return c.ZColor
	case types.CellJ:
		return c.JColor
	case types.CellL:
		return c.LColor
	case types.Garbage:
		return c.GarbageColor
	}
	return c.WellColor
}

// SetCell changes the color used for cell.
func (c *ConfigColors) SetCell(cell types.Cell, color int) {
	switch cell {
	case types.CellI:
		c.IColor = color
	case types.CellO:
		c.OColor = color
	case types.CellT:
		c.TColor = color
	case types.CellS:
		c.SColor = color
	case types.CellZ:
		c.ZColor = color
	case types.CellJ:
		c.JColor = color
	case types.CellL:
		c.LColor = color
	case types.Garbage:
		c.GarbageColor = color
	}
}

type ConfigSymbols struct {
	Block rune `json:"block"`
	Empty rune `json:"empty"`
	Ghost rune `json:"ghost"`
}

type Theme struct {
	DrawBlockBackground bool          `json:"draw_block_bg"`
	DrawGhost           bool          `json:"draw_ghost"`
	CheckeredWell       bool          `json:"checkered_well"`
	Colors              ConfigColors  `json:"colors"`
	Symbols             ConfigSymbols `json:"symbols"`
}

// KeyBindings lists the keys bound to each command. A key is either a single
// character or a tcell key name such as "Left" or "Enter". "Space" names the
// space bar.
type KeyBindings struct {
	Left    []string `json:"left"`
	Right   []string `json:"right"`
	Down    []string `json:"down"`
	Rotate  []string `json:"rotate"`
	Drop    []string `json:"drop"`
	Restart []string `json:"restart"`
}

type Keys struct {
	Single    KeyBindings `json:"single"`
	PlayerOne KeyBindings `json:"player_one"`
	PlayerTwo KeyBindings `json:"player_two"`
}

// LeaderboardConfig selects where scores are submitted. A non-empty URL
// points at a remote server; otherwise File (or the default data file) is used.
type LeaderboardConfig struct {
	URL  string `json:"url"`
	File string `json:"file"`
}

type Config struct {
	PlayerName  string            `json:"player_name"`
	Sound       bool              `json:"sound"`
	ReplayDir   string            `json:"replay_dir"`
	Theme       Theme             `json:"theme"`
	Keys        Keys              `json:"keys"`
	Leaderboard LeaderboardConfig `json:"leaderboard"`
}

// InitConfig loads the user configuration from the XDG config dir, falling
// back to DefaultConfig.
func InitConfig() (*Config, error) {
	return FileSettings{}.Load()
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.Block, c.Theme.Symbols.Empty, c.Theme.Symbols.Ghost} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	colors := c.Theme.Colors
	for _, v := range []int{colors.WellColor, colors.WellColorAlt, colors.BorderColor, colors.GhostColor,
		colors.GarbageColor, colors.IColor, colors.OColor, colors.TColor, colors.SColor,
		colors.ZColor, colors.JColor, colors.LColor} {
		if v < 0 || v > 255 {
			return &InvalidConfig{fmt.Sprintf("color %d is outside the 256-color palette", v)}
		}
	}
	if len([]rune(c.PlayerName)) > 24 {
		return &InvalidConfig{"player_name must be at most 24 characters"}
	}
	if c.Leaderboard.URL != "" {
		u, err := url.Parse(c.Leaderboard.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &InvalidConfig{fmt.Sprintf("leaderboard url %q must be an http(s) URL", c.Leaderboard.URL)}
		}
	}
	for name, b := range map[string]KeyBindings{"single": c.Keys.Single, "player_one": c.Keys.PlayerOne, "player_two": c.Keys.PlayerTwo} {
		if err := b.validate(name); err != nil {
			return err
		}
	}
	if key, ok := sharedKey(c.Keys.PlayerOne, c.Keys.PlayerTwo); ok {
		return &InvalidConfig{fmt.Sprintf("key %q is bound for both players", key)}
	}
	return nil
}

func (b KeyBindings) all() [][]string {
	return [][]string{b.Left, b.Right, b.Down, b.Rotate, b.Drop, b.Restart}
}

func (b KeyBindings) validate(name string) error {
	for _, keys := range b.all() {
		for _, k := range keys {
			if strings.TrimSpace(k) == "" {
				return &InvalidConfig{fmt.Sprintf("empty key in %s bindings", name)}
			}
		}
	}
	if len(b.Left) == 0 || len(b.Right) == 0 || len(b.Rotate) == 0 || len(b.Drop) == 0 {
		return &InvalidConfig{fmt.Sprintf("%s bindings need left, right, rotate and drop keys", name)}
	}
	return nil
}

func (b KeyBindings) clone() KeyBindings {
	return KeyBindings{
		Left:    append([]string(nil), b.Left...),
		Right:   append([]string(nil), b.Right...),
		Down:    append([]string(nil), b.Down...),
		Rotate:  append([]string(nil), b.Rotate...),
		Drop:    append([]string(nil), b.Drop...),
		Restart: append([]string(nil), b.Restart...),
	}
}

// Clone returns a copy of c that shares no key binding slices with it.
func (c Config) Clone() Config {
	c.Keys = Keys{
		Single:    c.Keys.Single.clone(),
		PlayerOne: c.Keys.PlayerOne.clone(),
		PlayerTwo: c.Keys.PlayerTwo.clone(),
	}
	return c
}

// sharedKey reports a key bound by both players. Restart keys are global and
// may overlap.
func sharedKey(a, b KeyBindings) (string, bool) {
	seen := make(map[string]bool)
	for _, keys := range a.all()[:5] {
		for _, k := range keys {
			seen[k] = true
		}
	}
	for _, keys := range b.all()[:5] {
		for _, k := range keys {
			if seen[k] {
				return k, true
			}
		}
	}
	return "", false
}

// ReplayPath returns the directory replays are written to.
func (c *Config) ReplayPath() string {
	if c.ReplayDir != "" {
		return c.ReplayDir
	}
	return filepath.Join(xdg.DataHome, replayDir)
}

// LeaderboardPath returns the local leaderboard file.
func (c *Config) LeaderboardPath() (string, error) {
	if c.Leaderboard.File != "" {
		return c.Leaderboard.File, nil
	}
	return xdg.DataFile(scoreFile)
}

// LogPath returns the debug log file, creating its directory.
func LogPath() (string, error) {
	return xdg.StateFile(logFile)
}

// Save writes c to the user config file.
func (c *Config) Save() error {
	return FileSettings{}.Save(c)
}

// SettingsStore loads and persists the configuration.
type SettingsStore interface {
	Load() (*Config, error)
	Save(c *Config) error
}

// FileSettings stores the configuration as JSON. An empty Path means the
// XDG config file.
type FileSettings struct {
	Path string
}

func (s FileSettings) Load() (*Config, error) {
	config := DefaultConfig.Clone()
	path := s.Path
	if path == "" {
		found, err := xdg.SearchConfigFile(cfgFile)
		if err != nil {
			return &config, nil
		}
		path = found
	}
	if err := readCfgFile(path, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (s FileSettings) Save(c *Config) error {
	path := s.Path
	if path == "" {
		var err error
		if path, err = xdg.ConfigFile(cfgFile); err != nil {
			return err
		}
	}
	return saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
