// Package sim plays whole games between bots without a Nakama server. It is
// used to tune bot strategies and to soak-test the rules engine.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/charmbracelet/log"

	"telefunken/internal/app"
	"telefunken/internal/bot"
	"telefunken/internal/config"
	"telefunken/internal/domain"
)

// ErrTurnLimit is returned when a game exceeds Config.MaxTurns.
var ErrTurnLimit = errors.New("turn limit reached")

// Config selects what the runner plays.
type Config struct {
	Players  int
	Games    int
	Seed     int64
	Mode     string
	Levels   []bot.BotLevel // per seat, cycled when shorter than Players
	MaxTurns int
}

// GameResult summarises one finished game.
type GameResult struct {
	ID        string
	Winner    string
	Totals    map[string]int
	Deals     int
	Turns     int
	Buys      int
	Fallbacks int
}

// Report aggregates every game of a run.
type Report struct {
	Games []GameResult
	// Wins counts games won per seat. Ties go to the earlier seat.
	Wins map[string]int
	// Points sums the final totals per seat.
	Points map[string]int
	Seats  []string
}

type Runner struct {
	cfg    Config
	svc    *app.Service
	dir    *app.Directory
	logger *log.Logger
}

// NewRunner validates cfg against the game config. logger may be nil.
func NewRunner(cfg Config, gameCfg *config.GameConfig, logger *log.Logger) (*Runner, error) {
	if cfg.Players < domain.MinPlayers || cfg.Players > gameCfg.MaxPlayers {
		return nil, fmt.Errorf("players must be between %d and %d", domain.MinPlayers, gameCfg.MaxPlayers)
	}
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("games must be positive")
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 5000
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = []bot.BotLevel{bot.BotLevelGreedy}
	}
	opts, err := gameCfg.SessionOptions(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	svc := app.NewService(rand.New(rand.NewSource(cfg.Seed)), opts)
	return &Runner{cfg: cfg, svc: svc, dir: app.NewDirectory(svc), logger: logger}, nil
}

func (r *Runner) seatID(i int) string {
	return fmt.Sprintf("%s%d", bot.FallbackIDPrefix, i)
}

// Run plays cfg.Games games in sequence. It stops early when ctx is done.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	report := Report{Wins: make(map[string]int), Points: make(map[string]int)}
	for i := 0; i < r.cfg.Players; i++ {
		report.Seats = append(report.Seats, r.seatID(i))
	}

	for g := 0; g < r.cfg.Games; g++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := r.playOne(ctx)
		if err != nil {
			return report, fmt.Errorf("game %d: %w", g+1, err)
		}
		report.Games = append(report.Games, result)
		report.Wins[result.Winner]++
		for id, pts := range result.Totals {
			report.Points[id] += pts
		}
		r.logger.Info("game finished", "game", g+1, "winner", result.Winner, "turns", result.Turns, "buys", result.Buys)
	}
	return report, nil
}

func (r *Runner) playOne(ctx context.Context) (GameResult, error) {
	agents := make(map[string]*bot.Agent, r.cfg.Players)
	for i := 0; i < r.cfg.Players; i++ {
		id := r.seatID(i)
		agent, err := bot.NewAgentWithLevel(id, "", r.cfg.Levels[i%len(r.cfg.Levels)])
		if err != nil {
			return GameResult{}, err
		}
		agents[id] = agent
	}

	id, _ := r.dir.Create(r.seatID(0))
	defer r.dir.Remove(id)
	entry, err := r.dir.Lookup(id)
	if err != nil {
		return GameResult{}, err
	}

	result := GameResult{ID: id}
	err = entry.Do(func(sess *domain.Session) error {
		for i := 1; i < r.cfg.Players; i++ {
			if _, err := r.svc.JoinSession(sess, r.seatID(i)); err != nil {
				return err
			}
		}
		if _, err := r.svc.StartGame(sess, sess.Owner); err != nil {
			return err
		}
		r.logger.Debug("game started", "id", id, "dealer", sess.Dealer)
		return r.loop(ctx, sess, agents, &result)
	})
	return result, err
}

func (r *Runner) loop(ctx context.Context, sess *domain.Session, agents map[string]*bot.Agent, result *GameResult) error {
	notify := func(event interface{}) {
		for _, a := range agents {
			a.OnGameEvent(event)
		}
	}

	for sess.Phase == domain.PhaseInProgress {
		if err := ctx.Err(); err != nil {
			return err
		}
		if result.Turns >= r.cfg.MaxTurns {
			return fmt.Errorf("%w after %d turns in deal %d", ErrTurnLimit, result.Turns, sess.Deal)
		}

		for _, id := range sess.Order {
			if id == sess.TurnPlayer {
				continue
			}
			top, ok := agents[id].WantsBuy(sess)
			if !ok {
				continue
			}
			if _, err := r.svc.BuyCard(sess, id, top); err != nil {
				r.logger.Debug("buy refused", "bot", id, "card", top, "err", err)
				continue
			}
			result.Buys++
			notify(bot.CardBought{PlayerID: id, Card: top})
		}

		actor := sess.TurnPlayer
		agent := agents[actor]
		move, err := agent.Play(sess)
		if err != nil {
			r.logger.Warn("bot could not plan", "bot", actor, "err", err)
		}
		outcome, _, err := r.svc.PlayMove(sess, actor, move)
		if err != nil {
			r.logger.Warn("move rejected, falling back", "bot", actor, "err", err)
			result.Fallbacks++
			if move, err = agent.Fallback(sess); err != nil {
				return err
			}
			if outcome, _, err = r.svc.PlayMove(sess, actor, move); err != nil {
				return fmt.Errorf("fallback for %s rejected: %w", actor, err)
			}
		}
		result.Turns++
		if move.Discard != nil {
			notify(bot.CardDiscarded{PlayerID: actor, Card: *move.Discard})
		}
		if outcome == domain.AdvanceDealChanged {
			r.logger.Debug("deal changed", "deal", sess.Deal, "dealer", sess.Dealer)
			notify(bot.DealStarted{Deal: sess.Deal})
		}
	}

	result.Deals = len(sess.History)
	result.Totals = sess.Totals()
	result.Winner = winner(sess.Order, result.Totals)
	return nil
}

// winner is the seat with the fewest points.
func winner(order []string, totals map[string]int) string {
	seats := append([]string(nil), order...)
	sort.SliceStable(seats, func(i, j int) bool { return totals[seats[i]] < totals[seats[j]] })
	return seats[0]
}
