package usecase

import (
	"math"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

// Agent は盤面から次の手を選ぶ
type Agent interface {
	Name() string
	BestMove(board domain.Board) (domain.Direction, bool)
}

// ExpectimaxAgent はSolverで手を選び、直近の探索統計を保持する
type ExpectimaxAgent struct {
	solver *domain.Solver
	last   domain.SearchStats
}

// NewExpectimaxAgent は新しいExpectimaxAgentを生成する
func NewExpectimaxAgent(solver *domain.Solver) *ExpectimaxAgent {
	return &ExpectimaxAgent{solver: solver}
}

func (a *ExpectimaxAgent) Name() string {
	return "expectimax"
}

func (a *ExpectimaxAgent) BestMove(board domain.Board) (domain.Direction, bool) {
	res := a.solver.Search(board)
	a.last = res.Stats
	return res.Move, res.Found
}

// LastStats は直近のBestMoveの探索統計を返す
func (a *ExpectimaxAgent) LastStats() domain.SearchStats {
	return a.last
}

// GreedyAgent は1手先の獲得スコアと評価値の和が最大の手を選ぶ（比較用ベースライン）
type GreedyAgent struct {
	weights domain.Weights
}

// NewGreedyAgent は新しいGreedyAgentを生成する
func NewGreedyAgent(weights domain.Weights) *GreedyAgent {
	return &GreedyAgent{weights: weights}
}

func (a *GreedyAgent) Name() string {
	return "greedy"
}

func (a *GreedyAgent) BestMove(board domain.Board) (domain.Direction, bool) {
	best := math.Inf(-1)
	bestDir := domain.Up
	found := false
	for _, dir := range board.LegalMoves() {
		next, points, _ := board.ApplyMove(dir)
		if score := float64(points) + domain.Evaluate(next, a.weights); score > best {
			best = score
			bestDir = dir
			found = true
		}
	}
	return bestDir, found
}

// statsReporter は探索統計を返せるAgent
type statsReporter interface {
	LastStats() domain.SearchStats
}
