// Command simulate plays bot-only Telefunken games and prints a score table.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"telefunken/internal/bot"
	"telefunken/internal/config"
	"telefunken/internal/sim"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play bot-only Telefunken games",
	Long:  `Plays whole games between bots with the server rules and prints the final standings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(v.GetString("log-level"))

		gameCfg := config.Default()
		if path := v.GetString("config"); path != "" {
			if err := config.LoadGameConfig(path); err != nil {
				return err
			}
			gameCfg = config.GetGameConfig()
		}

		var levels []bot.BotLevel
		for _, name := range strings.Split(v.GetString("levels"), ",") {
			if name = strings.TrimSpace(name); name != "" {
				levels = append(levels, bot.ParseLevel(name))
			}
		}

		runner, err := sim.NewRunner(sim.Config{
			Players:  v.GetInt("players"),
			Games:    v.GetInt("games"),
			Seed:     v.GetInt64("seed"),
			Mode:     v.GetString("mode"),
			Levels:   levels,
			MaxTurns: v.GetInt("max-turns"),
		}, gameCfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		started := time.Now()
		report, err := runner.Run(ctx)
		if len(report.Games) > 0 {
			printReport(report, levels)
		}
		if err != nil {
			return err
		}
		logger.Info("simulation complete", "games", len(report.Games), "elapsed", time.Since(started).Round(time.Millisecond))
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.Int("players", 4, "seats at the table")
	flags.Int("games", 10, "games to play")
	flags.Int64("seed", time.Now().UnixNano(), "random seed")
	flags.String("mode", "", "table mode from the game config")
	flags.String("levels", "greedy", "comma separated bot levels, cycled over the seats")
	flags.Int("max-turns", 5000, "abort a game after this many turns")
	flags.String("config", "", "game config file")
	flags.String("log-level", "info", "debug, info, warn or error")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("TELEFUNKEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func newLogger(level string) *log.Logger {
	logger := log.New(os.Stderr)
	logger.SetPrefix("simulate")
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat(time.DateTime)
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

func printReport(report sim.Report, levels []bot.BotLevel) {
	data := pterm.TableData{{"Seat", "Level", "Wins", "Points", "Avg"}}
	for i, seat := range report.Seats {
		level := bot.BotLevelGreedy
		if len(levels) > 0 {
			level = levels[i%len(levels)]
		}
		points := report.Points[seat]
		data = append(data, []string{
			seat,
			level.String(),
			fmt.Sprint(report.Wins[seat]),
			fmt.Sprint(points),
			fmt.Sprintf("%.1f", float64(points)/float64(len(report.Games))),
		})
	}
	pterm.DefaultSection.Println("Standings")
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}

	var turns, buys, fallbacks int
	for _, g := range report.Games {
		turns += g.Turns
		buys += g.Buys
		fallbacks += g.Fallbacks
	}
	pterm.Info.Printfln("%d games, %d turns, %d buys, %d fallback moves", len(report.Games), turns, buys, fallbacks)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
