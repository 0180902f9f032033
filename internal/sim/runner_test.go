package sim

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telefunken/internal/bot"
	"telefunken/internal/config"
	"telefunken/internal/domain"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunner_PlaysAllGames(t *testing.T) {
	runner, err := NewRunner(Config{
		Players: 3,
		Games:   2,
		Seed:    7,
		Mode:    "quick",
		Levels:  []bot.BotLevel{bot.BotLevelGreedy, bot.BotLevelBasic},
	}, config.Default(), quietLogger())
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Games, 2)
	assert.Equal(t, []string{"bot-0", "bot-1", "bot-2"}, report.Seats)
	wins := 0
	for _, n := range report.Wins {
		wins += n
	}
	assert.Equal(t, 2, wins)

	short := len(domain.ShortDeals())
	for _, g := range report.Games {
		assert.Equal(t, short, g.Deals)
		assert.Len(t, g.Totals, 3)
		assert.Positive(t, g.Turns)
		assert.Contains(t, report.Seats, g.Winner)
		for _, pts := range g.Totals {
			assert.GreaterOrEqual(t, g.Totals[g.Winner], 0)
			assert.LessOrEqual(t, g.Totals[g.Winner], pts)
		}
	}
	assert.Zero(t, runner.dir.Len(), "finished games must leave the directory")
}

func TestRunner_TurnLimit(t *testing.T) {
	runner, err := NewRunner(Config{Players: 2, Games: 1, Seed: 1, MaxTurns: 1}, config.Default(), quietLogger())
	require.NoError(t, err)

	_, err = runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrTurnLimit)
}

func TestRunner_Cancelled(t *testing.T) {
	runner, err := NewRunner(Config{Players: 2, Games: 3, Seed: 1}, config.Default(), quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Games)
}

func TestNewRunner_Validates(t *testing.T) {
	_, err := NewRunner(Config{Players: 1, Games: 1}, config.Default(), nil)
	assert.Error(t, err)

	_, err = NewRunner(Config{Players: 2, Games: 0}, config.Default(), nil)
	assert.Error(t, err)
}

func TestWinner_TieGoesToEarlierSeat(t *testing.T) {
	got := winner([]string{"a", "b", "c"}, map[string]int{"a": 30, "b": 10, "c": 10})
	assert.Equal(t, "b", got)
}
