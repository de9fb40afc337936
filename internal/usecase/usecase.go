package usecase

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

// PlayGame はCLIで2048ゲームを実行する
// "h" を入力するとhintSolverの推奨手を表示する（nilなら無効）
func PlayGame(r io.Reader, w io.Writer, rng *rand.Rand, hintSolver *domain.Solver) {
	game := domain.NewGame(rng)
	reader := bufio.NewReader(r)

	fmt.Fprintln(w, "=== 2048 ===")
	fmt.Fprintln(w, "Controls: w=Up, s=Down, a=Left, d=Right, h=Hint, q=Quit")
	fmt.Fprintln(w)

	for {
		fmt.Fprint(w, game.Board())

		if game.IsGameOver() {
			fmt.Fprintln(w, "Game Over!")
			break
		}

		fmt.Fprint(w, "Move: ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			break
		}

		input = strings.TrimSpace(strings.ToLower(input))
		switch input {
		case "q":
			fmt.Fprintln(w, "Quit.")
			return
		case "h":
			if hintSolver == nil {
				fmt.Fprintln(w, "Hints are disabled.")
			} else if dir, ok := hintSolver.BestMove(game.Board()); ok {
				fmt.Fprintf(w, "Hint: %s\n", dir)
			}
			fmt.Fprintln(w)
			continue
		}

		dir, err := domain.ParseDirection(input)
		if err != nil {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d, h for a hint, or q to quit.")
			continue
		}

		if !game.Move(dir) {
			fmt.Fprintln(w, "Cannot move in that direction.")
		}
		fmt.Fprintln(w)
	}
}
