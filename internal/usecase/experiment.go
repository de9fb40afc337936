package usecase

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

// TileMilestones は到達率を集計するタイル
var TileMilestones = []int{128, 256, 512, 1024, 2048, 4096, 8192}

// ExperimentConfig は複数ゲームを連続実行する実験の設定
type ExperimentConfig struct {
	Games    int
	Seed     int64
	AutoPlay AutoPlayConfig
}

// DefaultExperimentConfig はデフォルトの設定を返す
func DefaultExperimentConfig() ExperimentConfig {
	ap := DefaultAutoPlayConfig()
	ap.Delay = 0
	ap.Verbose = false
	return ExperimentConfig{
		Games:    10,
		Seed:     1,
		AutoPlay: ap,
	}
}

// ExperimentStats は実験全体の集計
type ExperimentStats struct {
	AvgScore        float64
	MaxScore        int
	MinScore        int
	AvgMaxTile      float64
	AvgMoves        float64
	AvgTimePerMove  time.Duration
	AvgNodesPerMove float64
	Reached         map[int]int
}

// ExperimentResult は実験結果
type ExperimentResult struct {
	RunID  uuid.UUID
	Agent  string
	Games  []GameResult
	Stats  ExperimentStats
	Config ExperimentConfig
}

// RunExperiment は設定された回数だけゲームを実行して集計する
// ゲームごとの乱数はSeedから決定的に作るので、同じ設定なら同じ結果になる
func RunExperiment(ctx context.Context, w io.Writer, config ExperimentConfig) (ExperimentResult, error) {
	if config.Games <= 0 {
		return ExperimentResult{}, fmt.Errorf("games must be positive, got %d", config.Games)
	}

	agent := config.AutoPlay.NewAgent()
	res := ExperimentResult{
		RunID:  uuid.New(),
		Agent:  agent.Name(),
		Games:  make([]GameResult, 0, config.Games),
		Config: config,
	}
	logger := log.With().Str("run-id", res.RunID.String()).Str("agent", res.Agent).Logger()
	logger.Info().
		Int("games", config.Games).
		Int("depth", config.AutoPlay.MaxDepth).
		Stringer("weights", config.AutoPlay.Weights).
		Msg("experiment-started")

	fmt.Fprintf(w, "Running %d games with %s (depth %d)...\n", config.Games, res.Agent, config.AutoPlay.MaxDepth)

	for i := 0; i < config.Games; i++ {
		if err := ctx.Err(); err != nil {
			res.Stats = computeStats(res.Games)
			return res, err
		}
		rng := rand.New(rand.NewSource(config.Seed + int64(i)))
		g := playGame(io.Discard, rng, agent, config.AutoPlay)
		res.Games = append(res.Games, g)
		fmt.Fprintf(w, "Game %d/%d: score=%d max_tile=%d moves=%d\n", i+1, config.Games, g.Score, g.MaxTile, g.Moves)
	}

	res.Stats = computeStats(res.Games)
	logger.Info().
		Float64("avg-score", res.Stats.AvgScore).
		Int("max-score", res.Stats.MaxScore).
		Float64("avg-max-tile", res.Stats.AvgMaxTile).
		Msg("experiment-finished")

	return res, nil
}

// Label は比較表示で使う設定の名前
func (c ExperimentConfig) Label() string {
	if c.AutoPlay.Greedy {
		return fmt.Sprintf("greedy weights=%s", c.AutoPlay.Weights)
	}
	return fmt.Sprintf("expectimax depth=%d weights=%s", c.AutoPlay.MaxDepth, c.AutoPlay.Weights)
}

// ComparisonConfigs はbaseの深さと重みを入れ替えた設定を深さ×重みの順に作る
// 空のリストはbaseの値をそのまま使う
func ComparisonConfigs(base ExperimentConfig, depths []int, weights []domain.Weights) []ExperimentConfig {
	if len(depths) == 0 {
		depths = []int{base.AutoPlay.MaxDepth}
	}
	if len(weights) == 0 {
		weights = []domain.Weights{base.AutoPlay.Weights}
	}
	configs := make([]ExperimentConfig, 0, len(depths)*len(weights))
	for _, d := range depths {
		for _, w := range weights {
			c := base
			c.AutoPlay.MaxDepth = d
			c.AutoPlay.Weights = w
			configs = append(configs, c)
		}
	}
	return configs
}

// CompareExperiments は複数の設定で実験を順に実行する
// 各設定は同じSeedを使うので、同じ初期盤面と出現列で比較される
// 途中でキャンセルされた場合はそこまでの結果とエラーを返す
func CompareExperiments(ctx context.Context, w io.Writer, configs []ExperimentConfig) ([]ExperimentResult, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to compare")
	}

	results := make([]ExperimentResult, 0, len(configs))
	for _, cfg := range configs {
		fmt.Fprintf(w, "--- %s ---\n", cfg.Label())
		res, err := RunExperiment(ctx, w, cfg)
		if err != nil {
			if len(res.Games) > 0 {
				results = append(results, res)
			}
			return results, fmt.Errorf("compare %s: %w", cfg.Label(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// PrintComparison は比較結果を1設定1行で表示し、平均スコアが最大の設定に印をつける
func PrintComparison(w io.Writer, results []ExperimentResult) {
	if len(results) == 0 {
		return
	}
	best := lo.MaxBy(results, func(a, b ExperimentResult) bool {
		return a.Stats.AvgScore > b.Stats.AvgScore
	})

	fmt.Fprintln(w, "=== Comparison ===")
	for _, res := range results {
		s := res.Stats
		n := len(res.Games)
		mark := ""
		if res.RunID == best.RunID {
			mark = " <- BEST"
		}
		fmt.Fprintf(w, "%s: avg %.1f, max %d, avg tile %.1f, 2048 %d/%d, %.0f nodes/move%s\n",
			res.Config.Label(), s.AvgScore, s.MaxScore, s.AvgMaxTile, s.Reached[2048], n, s.AvgNodesPerMove, mark)
	}
}

func computeStats(games []GameResult) ExperimentStats {
	if len(games) == 0 {
		return ExperimentStats{}
	}

	n := float64(len(games))
	scores := lo.Map(games, func(g GameResult, _ int) int { return g.Score })
	totalMoves := lo.SumBy(games, func(g GameResult) int { return g.Moves })
	totalNodes := lo.SumBy(games, func(g GameResult) uint64 { return g.Nodes })
	totalTime := lo.SumBy(games, func(g GameResult) time.Duration { return g.Elapsed })

	stats := ExperimentStats{
		AvgScore:   float64(lo.Sum(scores)) / n,
		MaxScore:   lo.Max(scores),
		MinScore:   lo.Min(scores),
		AvgMaxTile: float64(lo.SumBy(games, func(g GameResult) int { return g.MaxTile })) / n,
		AvgMoves:   float64(totalMoves) / n,
		Reached:    make(map[int]int, len(TileMilestones)),
	}
	if totalMoves > 0 {
		stats.AvgTimePerMove = totalTime / time.Duration(totalMoves)
		stats.AvgNodesPerMove = float64(totalNodes) / float64(totalMoves)
	}
	for _, tile := range TileMilestones {
		stats.Reached[tile] = lo.CountBy(games, func(g GameResult) bool { return g.MaxTile >= tile })
	}
	return stats
}

// PrintSummary は実験結果の集計を表示する
func PrintSummary(w io.Writer, res ExperimentResult) {
	s := res.Stats
	n := len(res.Games)
	fmt.Fprintln(w, "=== Experiment Summary ===")
	fmt.Fprintf(w, "Run: %s\n", res.RunID)
	fmt.Fprintf(w, "Agent: %s, Games: %d\n", res.Agent, n)
	fmt.Fprintf(w, "Score: avg %.1f, min %d, max %d\n", s.AvgScore, s.MinScore, s.MaxScore)
	fmt.Fprintf(w, "Max Tile: avg %.1f\n", s.AvgMaxTile)
	fmt.Fprintf(w, "Moves: avg %.1f, %v/move, %.0f nodes/move\n", s.AvgMoves, s.AvgTimePerMove, s.AvgNodesPerMove)
	for _, tile := range TileMilestones {
		if n == 0 {
			break
		}
		fmt.Fprintf(w, "  reached %5d: %3d/%d (%.0f%%)\n", tile, s.Reached[tile], n, 100*float64(s.Reached[tile])/float64(n))
	}
}
