package domain

// スポーン確率（2が90%、4が10%）。2048の標準ルールとして固定値で扱う
const (
	Spawn2Probability = 0.9
	Spawn4Probability = 0.1
)

// SpawnValues はスワイプ後に空きマスに出現しうる値
var SpawnValues = [2]int{2, 4}

var spawnProbabilities = [2]float64{Spawn2Probability, Spawn4Probability}

// Placement はランダムタイルの出現パターン1つ分
type Placement struct {
	Row         int
	Col         int
	Value       int
	Probability float64
}

// PlacementOutcomes は全ての空きマス×{2,4}の出現パターンを確率付きで返す
// 空きマスがない場合はnilを返す
func (b Board) PlacementOutcomes() []Placement {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return nil
	}

	cellProb := 1.0 / float64(len(empty))
	outcomes := make([]Placement, 0, len(empty)*len(SpawnValues))
	for _, pos := range empty {
		for i, val := range SpawnValues {
			outcomes = append(outcomes, Placement{
				Row:         pos.Row,
				Col:         pos.Col,
				Value:       val,
				Probability: cellProb * spawnProbabilities[i],
			})
		}
	}
	return outcomes
}

// Place は出現パターンを適用した新しいBoardを返す
func (b Board) Place(p Placement) Board {
	return b.Set(p.Row, p.Col, p.Value)
}
