package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"telefunken/internal/domain"
)

// TableMode is a named game variant a lobby can be created with.
type TableMode struct {
	ID            string `json:"id"`
	DealTable     string `json:"deal_table"`
	StartingChips int    `json:"starting_chips"`
}

type GameConfig struct {
	DefaultMode         string      `json:"default_mode"`
	Modes               []TableMode `json:"modes"`
	MaxPlayers          int         `json:"max_players"`
	HandSize            int         `json:"hand_size"`
	TurnDurationSeconds int         `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how long a solo human waits before bots take the empty seats.
	BotAutoFillDelaySeconds int   `json:"bot_auto_fill_delay_seconds"`
	BotMinDelaySeconds      int   `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds      int   `json:"bot_max_delay_seconds"`
	TicketTTLSeconds        int   `json:"ticket_ttl_seconds"`
	WelcomeBonusGold        int64 `json:"welcome_bonus_gold"`
}

// Default is used when no config file was loaded.
func Default() *GameConfig {
	return &GameConfig{
		DefaultMode: "classic",
		Modes: []TableMode{
			{ID: "classic", DealTable: domain.DealTableStandard, StartingChips: domain.DefaultStartingChips},
			{ID: "quick", DealTable: domain.DealTableShort, StartingChips: 3},
		},
		MaxPlayers:              domain.DefaultMaxPlayers,
		HandSize:                domain.DefaultHandSize,
		TurnDurationSeconds:     30,
		BotAutoFillDelaySeconds: 5,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		TicketTTLSeconds:        120,
		WelcomeBonusGold:        1000,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration or the defaults.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// Parse decodes a config document over the defaults and validates it.
func Parse(data []byte) (*GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.MaxPlayers < domain.MinPlayers || c.MaxPlayers > domain.DefaultMaxPlayers {
		return nil, fmt.Errorf("max_players must be between %d and %d", domain.MinPlayers, domain.DefaultMaxPlayers)
	}
	if c.HandSize <= 0 || c.MaxPlayers*c.HandSize+2 >= domain.TotalCards {
		return nil, fmt.Errorf("hand_size %d does not fit %d players", c.HandSize, c.MaxPlayers)
	}
	if c.BotMinDelaySeconds > c.BotMaxDelaySeconds {
		return nil, fmt.Errorf("bot_min_delay_seconds exceeds bot_max_delay_seconds")
	}
	if len(c.Modes) == 0 {
		return nil, fmt.Errorf("at least one mode is required")
	}
	for _, m := range c.Modes {
		if _, err := domain.DealTable(m.DealTable); err != nil {
			return nil, fmt.Errorf("mode %q: %w", m.ID, err)
		}
	}
	return c, nil
}

// Mode returns the mode with the given id, falling back to the default mode.
func (c *GameConfig) Mode(id string) TableMode {
	target := id
	if target == "" {
		target = c.DefaultMode
	}
	for _, m := range c.Modes {
		if m.ID == target {
			return m
		}
	}
	for _, m := range c.Modes {
		if m.ID == c.DefaultMode {
			return m
		}
	}
	return c.Modes[0]
}

// SessionOptions builds the session options for a mode.
func (c *GameConfig) SessionOptions(modeID string) (domain.Options, error) {
	mode := c.Mode(modeID)
	deals, err := domain.DealTable(mode.DealTable)
	if err != nil {
		return domain.Options{}, err
	}
	return domain.Options{
		MaxPlayers:    c.MaxPlayers,
		HandSize:      c.HandSize,
		StartingChips: mode.StartingChips,
		Deals:         deals,
	}, nil
}
