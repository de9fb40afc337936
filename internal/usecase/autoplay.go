package usecase

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

// AutoPlayConfig は自動プレイの設定
type AutoPlayConfig struct {
	MaxDepth    int
	MaxMoves    int
	Delay       time.Duration
	Weights     domain.Weights
	Greedy      bool
	UseParallel bool
	UseCache    bool
	Verbose     bool
}

// DefaultAutoPlayConfig はデフォルトの設定を返す
func DefaultAutoPlayConfig() AutoPlayConfig {
	return AutoPlayConfig{
		MaxDepth:    3,
		MaxMoves:    10000,
		Delay:       100 * time.Millisecond,
		Weights:     domain.DefaultWeights(),
		UseParallel: true,
		UseCache:    true,
		Verbose:     true,
	}
}

// NewAgent は設定に従ってAgentを生成する
func (c AutoPlayConfig) NewAgent() Agent {
	if c.Greedy {
		return NewGreedyAgent(c.Weights)
	}
	var opts []domain.SolverOption
	if c.UseParallel {
		opts = append(opts, domain.WithParallel(0))
	}
	if c.UseCache {
		opts = append(opts, domain.WithTranspositionTable())
	}
	return NewExpectimaxAgent(domain.NewSolver(domain.NewHeuristicEvaluator(c.Weights), c.MaxDepth, opts...))
}

// GameResult は1ゲームの結果
type GameResult struct {
	Score    int
	MaxTile  int
	Moves    int
	Nodes    uint64
	Elapsed  time.Duration
	Final    domain.Board
	GameOver bool
}

// AvgTimePerMove は1手あたりの平均思考時間
func (r GameResult) AvgTimePerMove() time.Duration {
	if r.Moves == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Moves)
}

// AvgNodesPerMove は1手あたりの平均探索ノード数
func (r GameResult) AvgNodesPerMove() float64 {
	if r.Moves == 0 {
		return 0
	}
	return float64(r.Nodes) / float64(r.Moves)
}

// AutoPlay は自動でゲームをプレイする
func AutoPlay(w io.Writer, rng *rand.Rand, config AutoPlayConfig) GameResult {
	agent := config.NewAgent()

	if config.Verbose {
		fmt.Fprintln(w, "=== 2048 AutoPlay ===")
		fmt.Fprintf(w, "Agent: %s, Depth: %d, Weights: %s\n\n", agent.Name(), config.MaxDepth, config.Weights)
	}

	return playGame(w, rng, agent, config)
}

func playGame(w io.Writer, rng *rand.Rand, agent Agent, config AutoPlayConfig) GameResult {
	game := domain.NewGame(rng)
	var res GameResult

	for !game.IsGameOver() && (config.MaxMoves <= 0 || game.Moves() < config.MaxMoves) {
		if config.Verbose {
			fmt.Fprint(w, game.Board())
			fmt.Fprintf(w, "Moves: %d\n", game.Moves())
		}

		start := time.Now()
		dir, ok := agent.BestMove(game.Board())
		res.Elapsed += time.Since(start)
		if !ok {
			break
		}
		if sr, ok := agent.(statsReporter); ok {
			res.Nodes += sr.LastStats().Nodes
		}

		if config.Verbose {
			fmt.Fprintf(w, "Move: %s\n\n", dir)
		}

		game.Move(dir)

		if config.Delay > 0 {
			time.Sleep(config.Delay)
		}
	}

	res.Score = game.Score()
	res.MaxTile = game.MaxTile()
	res.Moves = game.Moves()
	res.Final = game.Board()
	res.GameOver = game.IsGameOver()

	// 最終結果は常に表示
	fmt.Fprint(w, game.Board())
	fmt.Fprintln(w, "=== Game Over ===")
	fmt.Fprintf(w, "Final Score: %d\n", res.Score)
	fmt.Fprintf(w, "Total Moves: %d\n", res.Moves)
	fmt.Fprintf(w, "Max Tile: %d\n", res.MaxTile)

	log.Info().
		Str("agent", agent.Name()).
		Int("score", res.Score).
		Int("max-tile", res.MaxTile).
		Int("moves", res.Moves).
		Dur("avg-time-per-move", res.AvgTimePerMove()).
		Msg("game-finished")

	return res
}
