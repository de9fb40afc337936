package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Direction はスワイプの方向を表す
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions は方向の固定列挙順。同点の手はこの順で先にあるものを選ぶ
var Directions = [4]Direction{Up, Down, Left, Right}

// ErrInvalidDirection は解釈できない方向
var ErrInvalidDirection = errors.New("invalid direction")

// Valid は4方向のいずれかであればtrueを返す
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection は "up" / "w" などの入力を方向に変換する
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up, nil
	case "down", "s":
		return Down, nil
	case "left", "a":
		return Left, nil
	case "right", "d":
		return Right, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidDirection)
	}
}
