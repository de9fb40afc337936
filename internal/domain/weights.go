package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownWeight は認識できない重み名
var ErrUnknownWeight = errors.New("unknown weight")

// 重みの名前（閉じた集合）
const (
	WeightEmptyTiles     = "empty_tiles"
	WeightMonotonicity   = "monotonicity"
	WeightSmoothness     = "smoothness"
	WeightMaxTile        = "max_tile"
	WeightCornerBonus    = "corner_bonus"
	WeightMergePotential = "merge_potential"
)

// WeightNames は重み名の固定順
var WeightNames = []string{
	WeightEmptyTiles,
	WeightMonotonicity,
	WeightSmoothness,
	WeightMaxTile,
	WeightCornerBonus,
	WeightMergePotential,
}

// Weights は各特徴量の係数
// CornerBonusとMergePotentialはアブレーション用で、デフォルトは0
type Weights struct {
	EmptyTiles     float64
	Monotonicity   float64
	Smoothness     float64
	MaxTile        float64
	CornerBonus    float64
	MergePotential float64
}

// DefaultWeights はデフォルトの重みを返す
func DefaultWeights() Weights {
	return Weights{
		EmptyTiles:   10.0,
		Monotonicity: 4.0,
		Smoothness:   0.5,
		MaxTile:      2.0,
	}
}

func (w *Weights) field(name string) (*float64, error) {
	switch name {
	case WeightEmptyTiles:
		return &w.EmptyTiles, nil
	case WeightMonotonicity:
		return &w.Monotonicity, nil
	case WeightSmoothness:
		return &w.Smoothness, nil
	case WeightMaxTile:
		return &w.MaxTile, nil
	case WeightCornerBonus:
		return &w.CornerBonus, nil
	case WeightMergePotential:
		return &w.MergePotential, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownWeight)
	}
}

// Set は名前で指定した重みを設定する
func (w *Weights) Set(name string, value float64) error {
	f, err := w.field(name)
	if err != nil {
		return err
	}
	*f = value
	return nil
}

// Get は名前で指定した重みを返す
func (w Weights) Get(name string) (float64, error) {
	f, err := w.field(name)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

// ParseWeights は "empty_tiles=10,smoothness=0" 形式の文字列をデフォルトに上書きして返す
func ParseWeights(s string) (Weights, error) {
	w := DefaultWeights()
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, "=")
		if !ok {
			return Weights{}, fmt.Errorf("weight %q: missing '='", part)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Weights{}, fmt.Errorf("weight %q: %w", part, err)
		}
		if err := w.Set(strings.TrimSpace(name), value); err != nil {
			return Weights{}, err
		}
	}
	return w, nil
}

func (w Weights) String() string {
	parts := make([]string, 0, len(WeightNames))
	for _, name := range WeightNames {
		v, _ := w.Get(name)
		parts = append(parts, name+"="+strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}
