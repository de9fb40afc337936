package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/expectimax2048/internal/config"
	"github.com/nnaakkaaii/expectimax2048/internal/domain"
	"github.com/nnaakkaaii/expectimax2048/internal/usecase"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	depth := flag.Int("depth", cfg.Depth, "initial search depth")
	weights := flag.String("weights", cfg.Weights, "heuristic weights, e.g. empty_tiles=10,smoothness=0")
	noCache := flag.Bool("no-cache", false, "disable the transposition table")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	if err := config.SetupLogger(*logLevel); err != nil {
		log.Fatal().Err(err).Msg("log level")
	}
	w, err := domain.ParseWeights(*weights)
	if err != nil {
		log.Fatal().Err(err).Msg("parse weights")
	}

	scanner := bufio.NewScanner(os.Stdin)
	currentDepth := *depth

	fmt.Println("=== 2048 Interactive Analyzer ===")
	fmt.Println("Enter board state as 16 numbers (0 for empty), or 'quit' to exit")
	fmt.Println("Example: 0 0 0 0 0 0 0 0 0 0 0 0 0 0 2 2")
	fmt.Println("Commands: 'depth N' changes the search depth")
	fmt.Println()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == "":
			continue
		case input == "quit" || input == "q":
			return
		case strings.HasPrefix(input, "depth"):
			d, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(input, "depth")))
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			currentDepth = d
			fmt.Printf("Search depth: %d\n", currentDepth)
			continue
		}

		board, err := usecase.ParseBoard(input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		var opts []domain.SolverOption
		opts = append(opts, domain.WithParallel(0))
		if !*noCache {
			opts = append(opts, domain.WithTranspositionTable())
		}
		solver := domain.NewSolver(domain.NewHeuristicEvaluator(w), currentDepth, opts...)

		fmt.Printf("\nSearch depth: %d\n", currentDepth)
		usecase.PrintAnalysis(os.Stdout, usecase.Analyze(board, solver, w))
		fmt.Println()
	}
}
