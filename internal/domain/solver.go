package domain

import (
	"math"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// GetBestMove はデフォルト設定のSolverで最良の手を返す
// 有効な手がない（ゲームオーバー）場合はfalseを返す
func GetBestMove(board Board, depth int, weights Weights) (Direction, bool) {
	return NewSolver(NewHeuristicEvaluator(weights), depth).BestMove(board)
}

// Solver はExpectimaxアルゴリズムで最良の手を探索する
type Solver struct {
	evaluator Evaluator
	maxDepth  int
	workers   int
	useCache  bool
}

// SolverOption はSolverの設定を変更する
type SolverOption func(*Solver)

// WithParallel はトップレベルの手を最大workers個並列に評価する
// workersが0以下ならCPU数を使う。結果は逐次実行と同じになる
func WithParallel(workers int) SolverOption {
	return func(s *Solver) {
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		s.workers = workers
	}
}

// WithTranspositionTable は探索ごとの置換表を有効にする
// 評価値は変わらず、同一局面の再探索だけが省略される
func WithTranspositionTable() SolverOption {
	return func(s *Solver) {
		s.useCache = true
	}
}

// NewSolver は新しいSolverを生成する
func NewSolver(evaluator Evaluator, maxDepth int, opts ...SolverOption) *Solver {
	s := &Solver{
		evaluator: evaluator,
		maxDepth:  maxDepth,
		workers:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxDepth は探索深さを返す
func (s *Solver) MaxDepth() int {
	return s.maxDepth
}

// SearchStats は1回の探索の統計
type SearchStats struct {
	Nodes       uint64
	Evaluations uint64
	CacheHits   uint64
	Elapsed     time.Duration
}

func (st *SearchStats) add(other SearchStats) {
	st.Nodes += other.Nodes
	st.Evaluations += other.Evaluations
	st.CacheHits += other.CacheHits
}

// Result は探索結果
// Foundがfalseなら有効な手がない
type Result struct {
	Move   Direction
	Found  bool
	Values map[Direction]float64
	Stats  SearchStats
}

// BestMove は現在の盤面から最良の手を返す
// 有効な手がない場合はfalseを返す
func (s *Solver) BestMove(board Board) (Direction, bool) {
	res := s.Search(board)
	return res.Move, res.Found
}

// Search は全ての有効な手を評価し、最良の手と各手の評価値を返す
func (s *Solver) Search(board Board) Result {
	start := time.Now()
	moves := board.LegalMoves()
	res := Result{Values: make(map[Direction]float64, len(moves))}
	if len(moves) == 0 {
		res.Stats.Elapsed = time.Since(start)
		return res
	}

	values := make([]float64, len(moves))
	stats := make([]SearchStats, len(moves))
	scoreMove := func(i int) {
		sr := s.newSearcher()
		next, _, _ := board.ApplyMove(moves[i])
		values[i] = sr.rootValue(next, s.maxDepth)
		stats[i] = sr.stats
	}

	if s.workers > 1 && len(moves) > 1 {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i := range moves {
			g.Go(func() error {
				scoreMove(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range moves {
			scoreMove(i)
		}
	}

	// 同点の場合はDirectionsの順で先にある手を選ぶ
	best := 0
	for i, dir := range moves {
		res.Values[dir] = values[i]
		res.Stats.add(stats[i])
		if values[i] > values[best] {
			best = i
		}
	}
	res.Move = moves[best]
	res.Found = true
	res.Stats.Elapsed = time.Since(start)

	log.Debug().
		Stringer("board", NewBitBoard(board)).
		Int("depth", s.maxDepth).
		Stringer("move", res.Move).
		Float64("value", values[best]).
		Uint64("nodes", res.Stats.Nodes).
		Uint64("cache-hits", res.Stats.CacheHits).
		Dur("elapsed", res.Stats.Elapsed).
		Msg("expectimax-search")

	return res
}

type nodeKind uint8

const (
	maxNode nodeKind = iota
	chanceNode
)

type cacheKey struct {
	board BitBoard
	score int
	depth int
	kind  nodeKind
}

// searcher はトップレベルの1手ごとに作られ、goroutine間で共有されない
type searcher struct {
	evaluator Evaluator
	cache     map[cacheKey]float64
	keyScore  bool
	stats     SearchStats
}

func (s *Solver) newSearcher() *searcher {
	sr := &searcher{evaluator: s.evaluator, keyScore: true}
	if s.useCache {
		sr.cache = make(map[cacheKey]float64)
	}
	if ge, ok := s.evaluator.(GridEvaluator); ok && ge.IgnoresScore() {
		sr.keyScore = false
	}
	return sr
}

func (sr *searcher) evaluate(board Board) float64 {
	sr.stats.Evaluations++
	return sr.evaluator.Evaluate(board)
}

func (sr *searcher) lookup(board Board, depth int, kind nodeKind) (cacheKey, float64, bool) {
	if sr.cache == nil {
		return cacheKey{}, 0, false
	}
	key := cacheKey{board: NewBitBoard(board), depth: depth, kind: kind}
	if sr.keyScore {
		key.score = board.score
	}
	v, ok := sr.cache[key]
	if ok {
		sr.stats.CacheHits++
	}
	return key, v, ok
}

func (sr *searcher) store(key cacheKey, v float64) {
	if sr.cache != nil {
		sr.cache[key] = v
	}
}

// rootValue はトップレベルの手を指した後の盤面の評価値
// 深さ0以下では先読みせずに評価する
func (sr *searcher) rootValue(afterMove Board, depth int) float64 {
	if depth <= 0 {
		return sr.evaluate(afterMove)
	}
	return sr.chanceValue(afterMove, depth-1)
}

// maxValue はプレイヤーの最善手を探索する
func (sr *searcher) maxValue(board Board, depth int) float64 {
	sr.stats.Nodes++
	if depth <= 0 {
		return sr.evaluate(board)
	}

	key, v, ok := sr.lookup(board, depth, maxNode)
	if ok {
		return v
	}

	best := math.Inf(-1)
	hasMoved := false
	for _, dir := range Directions {
		next, _, changed := board.ApplyMove(dir)
		if !changed {
			continue
		}
		hasMoved = true
		if v := sr.chanceValue(next, depth-1); v > best {
			best = v
		}
	}

	if !hasMoved {
		best = sr.evaluate(board)
	}
	sr.store(key, best)
	return best
}

// chanceValue はタイル出現の期待値を計算する
// 深さはここでは消費せず、子のmaxValueに同じ深さを渡す
func (sr *searcher) chanceValue(board Board, depth int) float64 {
	sr.stats.Nodes++
	// 空きマスがある盤面は終局ではないので、終局の判定は満杯かどうかで足りる
	outcomes := board.PlacementOutcomes()
	if len(outcomes) == 0 {
		return sr.evaluate(board)
	}

	key, v, ok := sr.lookup(board, depth, chanceNode)
	if ok {
		return v
	}

	expected := 0.0
	for _, p := range outcomes {
		expected += p.Probability * sr.maxValue(board.Place(p), depth)
	}

	sr.store(key, expected)
	return expected
}
