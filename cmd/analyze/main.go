// Command analyze prints quick, human-readable statistics about flying chess
// maps. For every map in an export file it summarizes the square mix, flags
// layouts that are likely to frustrate players, and plays seeded simulated
// games to estimate how long a game lasts and whether turn order matters.
//
// Without file arguments the built-in classic map is analyzed.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/store"
)

// maxRollsPerGame caps a simulated game; no real map gets close
const maxRollsPerGame = 100000

// MapStats summarizes the layout of one map
type MapStats struct {
	Name      string
	Squares   int
	Normals   int
	Rewards   int
	Penalties int

	// Normal squares that carry an option text
	Texts int

	RewardSteps  int
	PenaltySteps int

	// Penalties placed within a die roll of the finish
	LatePenalties []int

	// Rewards that send the player straight to the finish
	FinishRewards []int
}

// SimStats aggregates the outcome of simulated games
type SimStats struct {
	Games   int
	Players int

	// Rolls until the first player reaches the finish
	AvgRolls float64
	MinRolls int
	MaxRolls int

	// Games won by each turn slot
	WinsBySeat []int

	// Games that hit maxRollsPerGame
	Unfinished int
}

func main() {
	app := &cli.Command{
		Name:      "analyze",
		Usage:     "Print statistics and simulated game lengths for flying chess maps",
		ArgsUsage: "[map export files...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "games",
				Value: 1000,
				Usage: "Simulated games per map",
			},
			&cli.IntFlag{
				Name:  "players",
				Value: engine.MaxPlayers,
				Usage: "Players per simulated game",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "Random seed for the simulation",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	games := cmd.Int("games")
	players := cmd.Int("players")
	rng := engine.NewSeededRand(cmd.Uint64("seed"))

	files := cmd.Args().Slice()
	if len(files) == 0 {
		fmt.Println("\n=== Analyzing built-in classic map ===")
		return report(os.Stdout, engine.DefaultMap(), games, players, rng)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", file)

		maps, err := loadMaps(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		for _, m := range maps {
			if err := report(os.Stdout, m, games, players, rng); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadMaps reads a map export file, choosing JSON or YAML by extension.
// Maps go through the same normalization as an import.
func loadMaps(path string) ([]*engine.Map, error) {
	format, err := catalog.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	cat, err := catalog.NewManager(store.NewMemoryStore())
	if err != nil {
		return nil, err
	}
	return cat.ImportMaps(data, format)
}

func report(w io.Writer, m *engine.Map, games, players int, rng engine.Rand) error {
	stats := analyzeMap(m)

	fmt.Fprintf(w, "Name: %s\n", stats.Name)
	fmt.Fprintf(w, "Squares: %d (%d normal, %d reward, %d penalty)\n",
		stats.Squares, stats.Normals, stats.Rewards, stats.Penalties)
	fmt.Fprintf(w, "Option texts: %d of %d normal squares\n", stats.Texts, stats.Normals)
	fmt.Fprintf(w, "Total reward steps: %d, total penalty steps: %d\n", stats.RewardSteps, stats.PenaltySteps)

	if len(stats.LatePenalties) > 0 {
		fmt.Fprintf(w, "⚠️  Penalties within one roll of the finish: %v\n", stats.LatePenalties)
	}
	if len(stats.FinishRewards) > 0 {
		fmt.Fprintf(w, "⚠️  Rewards that jump straight to the finish: %v\n", stats.FinishRewards)
	}

	if games <= 0 {
		return nil
	}

	sim, err := simulate(m, players, games, rng)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Simulated %d games with %d players\n", sim.Games, sim.Players)
	fmt.Fprintf(w, "  Rolls to first finish: avg %.1f, min %d, max %d\n", sim.AvgRolls, sim.MinRolls, sim.MaxRolls)
	for seat, wins := range sim.WinsBySeat {
		fmt.Fprintf(w, "  Player %d won %.1f%%\n", seat+1, 100*float64(wins)/float64(sim.Games))
	}
	if sim.Unfinished > 0 {
		fmt.Fprintf(w, "⚠️  %d games did not finish within %d rolls\n", sim.Unfinished, maxRollsPerGame)
	}
	return nil
}

// analyzeMap counts squares and flags suspicious placements
func analyzeMap(m *engine.Map) MapStats {
	stats := MapStats{
		Name:    m.Name,
		Squares: len(m.Grid),
	}
	last := m.LastIndex()

	for i, sq := range m.Grid {
		switch sq.Kind {
		case engine.Normal:
			stats.Normals++
			if sq.Text != "" {
				stats.Texts++
			}
		case engine.Reward:
			stats.Rewards++
			stats.RewardSteps += sq.Value
			if i+sq.Value >= last {
				stats.FinishRewards = append(stats.FinishRewards, i)
			}
		case engine.Penalty:
			stats.Penalties++
			stats.PenaltySteps += sq.Value
			if last-i <= engine.DiceFaces {
				stats.LatePenalties = append(stats.LatePenalties, i)
			}
		}
	}
	return stats
}

// simulate plays games on m until the first player reaches the finish
func simulate(m *engine.Map, players, games int, rng engine.Rand) (SimStats, error) {
	start, err := engine.NewGameState().SetPlayers(players, nil)
	if err != nil {
		return SimStats{}, err
	}
	start, err = start.StartGame(m)
	if err != nil {
		return SimStats{}, err
	}

	stats := SimStats{
		Games:      games,
		Players:    players,
		WinsBySeat: make([]int, players),
	}
	msgs := engine.DefaultMessages()
	last := m.LastIndex()
	total := 0

	for g := 0; g < games; g++ {
		state := start
		winner := 0
		for winner == 0 && state.Rolls < maxRollsPerGame {
			state = state.RollDice(rng, msgs)
			if e := state.LastEvent; e.To == last {
				winner = e.PlayerID
			}
		}

		if winner == 0 {
			stats.Unfinished++
			continue
		}

		stats.WinsBySeat[winner-1]++
		total += state.Rolls
		if stats.MinRolls == 0 || state.Rolls < stats.MinRolls {
			stats.MinRolls = state.Rolls
		}
		stats.MaxRolls = max(stats.MaxRolls, state.Rolls)
	}

	if finished := games - stats.Unfinished; finished > 0 {
		stats.AvgRolls = float64(total) / float64(finished)
	}
	return stats, nil
}
