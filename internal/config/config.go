// Package config はコマンド共通の設定（.envと環境変数）を読み込む
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nnaakkaaii/expectimax2048/internal/domain"
)

// 環境変数名
const (
	EnvDepth    = "EXPECTIMAX2048_DEPTH"
	EnvWeights  = "EXPECTIMAX2048_WEIGHTS"
	EnvLogLevel = "EXPECTIMAX2048_LOG_LEVEL"
)

// Config はフラグのデフォルト値として使う設定
type Config struct {
	Depth    int
	Weights  string
	LogLevel string
}

// Default は環境変数がない場合の設定を返す
func Default() Config {
	return Config{
		Depth:    3,
		Weights:  "",
		LogLevel: "info",
	}
}

// Load はdotenvファイル（存在しなければ無視）を読み込み、環境変数で上書きした設定を返す
func Load(dotenvFiles ...string) (Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv はlookupで得た値でDefaultを上書きする
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if v, ok := lookup(EnvDepth); ok {
		d, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvDepth, err)
		}
		c.Depth = d
	}
	if v, ok := lookup(EnvWeights); ok {
		if _, err := domain.ParseWeights(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvWeights, err)
		}
		c.Weights = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		if _, err := zerolog.ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		c.LogLevel = v
	}
	return c, nil
}

// SetupLogger はグローバルロガーを標準エラーのコンソール出力にし、レベルを設定する
func SetupLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return nil
}
