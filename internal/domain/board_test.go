package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardFromCells(t *testing.T) {
	tests := []struct {
		name    string
		cells   [4][4]int
		wantErr bool
	}{
		{
			name:  "empty board",
			cells: [4][4]int{},
		},
		{
			name: "powers of two",
			cells: [4][4]int{
				{2, 4, 8, 16},
				{32, 64, 128, 256},
				{512, 1024, 2048, 4096},
				{8192, 16384, 32768, 0},
			},
		},
		{
			name:    "negative tile",
			cells:   [4][4]int{{-2, 0, 0, 0}},
			wantErr: true,
		},
		{
			name:    "not a power of two",
			cells:   [4][4]int{{0, 6, 0, 0}},
			wantErr: true,
		},
		{
			name:    "one is not a tile",
			cells:   [4][4]int{{1, 0, 0, 0}},
			wantErr: true,
		},
		{
			name:  "65536 is a tile",
			cells: [4][4]int{{65536, 0, 0, 0}},
		},
		{
			name:    "above maximum",
			cells:   [4][4]int{{0, 0, 0, 0}, {0, 0, 0, MaxTileValue * 2}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBoardFromCells(tt.cells)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTile))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, b.Score())
		})
	}
}

func TestMustBoardPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustBoard([4][4]int{{3, 0, 0, 0}})
	})
}

func TestBoardImmutability(t *testing.T) {
	original := MustBoard([4][4]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	snapshot := original

	_, _, _ = original.ApplyMove(Left)
	_ = original.Set(3, 3, 4)
	_ = original.Place(Placement{Row: 1, Col: 1, Value: 2, Probability: 1})

	// オリジナルが変更されていないことを確認
	assert.True(t, original.Equal(snapshot), "original board was mutated")
	assert.Equal(t, 0, original.Get(3, 3))
}

func TestEmptyCells(t *testing.T) {
	board := MustBoard([4][4]int{
		{2, 0, 4, 0},
		{2, 4, 8, 16},
		{2, 4, 8, 16},
		{0, 4, 8, 16},
	})

	assert.Equal(t, []Cell{{0, 1}, {0, 3}, {3, 0}}, board.EmptyCells())
	assert.Len(t, NewBoard().EmptyCells(), 16)
}

func TestMaxTile(t *testing.T) {
	assert.Equal(t, 0, NewBoard().MaxTile())

	board := MustBoard([4][4]int{
		{2, 0, 0, 0},
		{0, 0, 512, 0},
		{0, 64, 0, 0},
		{0, 0, 0, 4},
	})
	assert.Equal(t, 512, board.MaxTile())
}

func TestEqual(t *testing.T) {
	board1 := MustBoard([4][4]int{{2, 4, 0, 0}})
	board2 := MustBoard([4][4]int{{2, 4, 0, 0}}).WithScore(100)
	board3 := MustBoard([4][4]int{{4, 2, 0, 0}})

	assert.True(t, board1.Equal(board2), "score must not affect equality")
	assert.False(t, board1.Equal(board3))
}

func TestString(t *testing.T) {
	board := MustBoard([4][4]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 0},
		{0, 0, 0, 2},
	}).WithScore(1234)

	str := board.String()

	// 各値が含まれていることを確認
	for _, v := range []string{"2", "4", "8", "16", "32", "64", "128", "256", "512", "1024", "2048"} {
		assert.Contains(t, str, v)
	}
	assert.Contains(t, str, "+------+")
	assert.True(t, strings.HasSuffix(str, "Score: 1234\n"))

	t.Logf("Board display:\n%s", str)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
	}{
		{"up", Up}, {"W", Up},
		{"down", Down}, {"s", Down},
		{"Left", Left}, {"a", Left},
		{"right", Right}, {"d", Right},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseDirection("x")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "Up", Up.String())
	assert.Equal(t, "Right", Right.String())
	assert.Equal(t, "Direction(7)", Direction(7).String())
	assert.False(t, Direction(-1).Valid())
	for _, d := range Directions {
		assert.True(t, d.Valid())
	}
}
