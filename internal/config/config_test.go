package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telefunken/internal/domain"
)

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`{
		"default_mode": "quick",
		"max_players": 3,
		"bot_max_delay_seconds": 5,
		"modes": [
			{"id": "classic", "deal_table": "standard", "starting_chips": 6},
			{"id": "quick", "deal_table": "short", "starting_chips": 2}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, 3, c.MaxPlayers)
	assert.Equal(t, 5, c.BotMaxDelaySeconds)
	assert.Equal(t, domain.DefaultHandSize, c.HandSize)

	opts, err := c.SessionOptions("")
	require.NoError(t, err)
	assert.Len(t, opts.Deals, 2)
	assert.Equal(t, 2, opts.StartingChips)
	assert.Equal(t, 3, opts.MaxPlayers)

	opts, err = c.SessionOptions("classic")
	require.NoError(t, err)
	assert.Len(t, opts.Deals, 6)
}

func TestModeFallsBackToDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "classic", c.Mode("").ID)
	assert.Equal(t, "quick", c.Mode("quick").ID)
	assert.Equal(t, "classic", c.Mode("no-such-mode").ID)
}

func TestParseRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"too many players", `{"max_players": 6}`},
		{"too few players", `{"max_players": 1}`},
		{"hand too large", `{"hand_size": 40}`},
		{"delays inverted", `{"bot_min_delay_seconds": 4, "bot_max_delay_seconds": 2}`},
		{"unknown deal table", `{"modes": [{"id": "x", "deal_table": "marathon"}]}`},
		{"no modes", `{"modes": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestGetGameConfigDefaultsWhenUnloaded(t *testing.T) {
	c := GetGameConfig()
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Modes)
}
