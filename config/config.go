package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"seiji/game"
)

// Config regroupe toute la configuration de seiji.
type Config struct {
	Board    BoardConfig   `yaml:"board"`
	Pieces   PiecesConfig  `yaml:"pieces"`
	Network  NetworkConfig `yaml:"network"`
	Viewport game.Viewport `yaml:"viewport"`
	Logging  LoggingConfig `yaml:"logging"`
}

type BoardConfig struct {
	Size int `yaml:"size"`
}

// PiecesConfig fixe la composition des réserves ; monarque et espion sont toujours uniques.
type PiecesConfig struct {
	Advisors  int `yaml:"advisors"`
	Officials int `yaml:"officials"`
	Palaces   int `yaml:"palaces"`
}

type NetworkConfig struct {
	ListenAddr   string `yaml:"listen_addr"`
	ServerURL    string `yaml:"server_url"`
	QueueSize    int    `yaml:"queue_size"`
	WriteTimeout string `yaml:"write_timeout"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	Encoding    string `yaml:"encoding"` // console ou json
}

const (
	DefaultListenAddr   = ":5555"
	DefaultServerURL    = "ws://localhost:5555/ws"
	DefaultQueueSize    = 64
	DefaultWriteTimeout = 5 * time.Second
)

func DefaultConfig() *Config {
	c := game.DefaultComposition()
	return &Config{
		Board: BoardConfig{Size: game.DefaultBoardSize},
		Pieces: PiecesConfig{
			Advisors:  c.Advisors,
			Officials: c.Officials,
			Palaces:   c.Palaces,
		},
		Network: NetworkConfig{
			ListenAddr:   DefaultListenAddr,
			ServerURL:    DefaultServerURL,
			QueueSize:    DefaultQueueSize,
			WriteTimeout: DefaultWriteTimeout.String(),
		},
		Viewport: game.Viewport{Width: 1280, Height: 720},
		Logging:  LoggingConfig{Level: "info", Encoding: "console"},
	}
}

// Load lit un fichier YAML. Un fichier absent donne la configuration par défaut.
// Les variables d'environnement sont appliquées ensuite, puis Normalize.
func Load(path string) (*Config, []string, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	warnings := cfg.applyEnvOverrides()
	warnings = append(warnings, cfg.Normalize()...)
	return cfg, warnings, nil
}

// Save écrit la configuration en YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() []string {
	var warnings []string
	if v := os.Getenv("SEIJI_BOARD_SIZE"); v != "" {
		if n, ok := ParseBoardSize(v); ok {
			c.Board.Size = n
		} else {
			warnings = append(warnings, fmt.Sprintf("SEIJI_BOARD_SIZE=%q ignored", v))
		}
	}
	if v := os.Getenv("SEIJI_SERVER_URL"); v != "" {
		c.Network.ServerURL = v
	}
	if v := os.Getenv("SEIJI_LISTEN_ADDR"); v != "" {
		c.Network.ListenAddr = v
	}
	if v := os.Getenv("SEIJI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return warnings
}

// Normalize remplace les valeurs invalides par les valeurs par défaut et retourne
// un avertissement pour chacune. Une mauvaise saisie ne doit jamais atteindre le moteur.
func (c *Config) Normalize() []string {
	def := DefaultConfig()
	var warnings []string
	if !game.ValidBoardSize(c.Board.Size) {
		warnings = append(warnings, fmt.Sprintf("board size %d out of range %d-%d, using %d",
			c.Board.Size, game.MinBoardSize, game.MaxBoardSize, def.Board.Size))
		c.Board.Size = def.Board.Size
	}
	if err := c.Composition().Validate(); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using defaults", err))
		c.Pieces = def.Pieces
	}
	if c.Network.QueueSize <= 0 {
		c.Network.QueueSize = def.Network.QueueSize
	}
	if _, err := time.ParseDuration(c.Network.WriteTimeout); err != nil {
		warnings = append(warnings, fmt.Sprintf("write_timeout %q invalid, using %s", c.Network.WriteTimeout, def.Network.WriteTimeout))
		c.Network.WriteTimeout = def.Network.WriteTimeout
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		c.Viewport = def.Viewport
	}
	return warnings
}

// Composition convertit la section pieces.
func (c *Config) Composition() game.Composition {
	return game.Composition{
		Advisors:  c.Pieces.Advisors,
		Officials: c.Pieces.Officials,
		Palaces:   c.Pieces.Palaces,
	}
}

func (c *Config) GetWriteTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Network.WriteTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultWriteTimeout
}

// ParseBoardSize valide une taille saisie par l'utilisateur.
func ParseBoardSize(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !game.ValidBoardSize(n) {
		return 0, false
	}
	return n, true
}
