package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
	_ "go.uber.org/automaxprocs"

	"github.com/nnaakkaaii/expectimax2048/internal/config"
	"github.com/nnaakkaaii/expectimax2048/internal/domain"
	"github.com/nnaakkaaii/expectimax2048/internal/usecase"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	depth := flag.Int("depth", cfg.Depth, "search depth")
	weights := flag.String("weights", cfg.Weights, "heuristic weights, e.g. empty_tiles=10,smoothness=0")
	delay := flag.Int("delay", 100, "delay between moves (ms)")
	maxMoves := flag.Int("max-moves", 10000, "stop a game after this many moves")
	games := flag.Int("games", 1, "number of games; more than one runs an experiment")
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	greedy := flag.Bool("greedy", false, "use the greedy baseline agent")
	sequential := flag.Bool("sequential", false, "disable parallel search")
	noCache := flag.Bool("no-cache", false, "disable the transposition table")
	quiet := flag.Bool("quiet", false, "suppress board output")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to the working directory")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	compareDepths := flag.String("compare-depths", "", "comma separated depths to compare, e.g. 3,4")
	compareWeights := flag.String("compare-weights", "", "semicolon separated weight sets to compare")
	flag.Parse()

	if err := config.SetupLogger(*logLevel); err != nil {
		log.Fatal().Err(err).Msg("log level")
	}
	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	w, err := domain.ParseWeights(*weights)
	if err != nil {
		log.Fatal().Err(err).Msg("parse weights")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ap := usecase.DefaultAutoPlayConfig()
	ap.MaxDepth = *depth
	ap.MaxMoves = *maxMoves
	ap.Delay = time.Duration(*delay) * time.Millisecond
	ap.Weights = w
	ap.Greedy = *greedy
	ap.UseParallel = !*sequential
	ap.UseCache = !*noCache
	ap.Verbose = !*quiet

	comparing := *compareDepths != "" || *compareWeights != ""
	if *games <= 1 && !comparing {
		usecase.AutoPlay(os.Stdout, rand.New(rand.NewSource(*seed)), ap)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ap.Delay = 0
	ap.Verbose = false
	exp := usecase.ExperimentConfig{
		Games:    *games,
		Seed:     *seed,
		AutoPlay: ap,
	}

	if comparing {
		depths, err := parseDepths(*compareDepths)
		if err != nil {
			log.Fatal().Err(err).Msg("parse compare-depths")
		}
		weightSets, err := parseWeightSets(*compareWeights)
		if err != nil {
			log.Fatal().Err(err).Msg("parse compare-weights")
		}
		results, err := usecase.CompareExperiments(ctx, os.Stdout, usecase.ComparisonConfigs(exp, depths, weightSets))
		if err != nil {
			log.Error().Err(err).Int("completed", len(results)).Msg("comparison interrupted")
		}
		for _, res := range results {
			usecase.PrintSummary(os.Stdout, res)
		}
		usecase.PrintComparison(os.Stdout, results)
		return
	}

	res, err := usecase.RunExperiment(ctx, os.Stdout, exp)
	if err != nil {
		log.Error().Err(err).Int("completed", len(res.Games)).Msg("experiment interrupted")
	}
	usecase.PrintSummary(os.Stdout, res)
}

func parseDepths(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var depths []int
	for _, f := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		depths = append(depths, d)
	}
	return depths, nil
}

func parseWeightSets(s string) ([]domain.Weights, error) {
	if s == "" {
		return nil, nil
	}
	var sets []domain.Weights
	for _, f := range strings.Split(s, ";") {
		w, err := domain.ParseWeights(f)
		if err != nil {
			return nil, err
		}
		sets = append(sets, w)
	}
	return sets, nil
}
