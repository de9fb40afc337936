package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

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
	depth := flag.Int("hint-depth", cfg.Depth, "search depth for hints")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	if err := config.SetupLogger(*logLevel); err != nil {
		log.Fatal().Err(err).Msg("log level")
	}
	w, err := domain.ParseWeights(cfg.Weights)
	if err != nil {
		log.Fatal().Err(err).Msg("parse weights")
	}

	solver := domain.NewSolver(domain.NewHeuristicEvaluator(w), *depth, domain.WithParallel(0), domain.WithTranspositionTable())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	usecase.PlayGame(os.Stdin, os.Stdout, rng, solver)
}
