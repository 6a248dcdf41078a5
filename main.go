package main

import (
	"flag"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kayago/kaya/automatic"
	"github.com/kayago/kaya/config"
)

var profilePath = flag.String("profilepath", "", "path for profile")

func main() {
	flag.Parse()

	zerolog.DurationFieldUnit = time.Millisecond
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := &config.Config{}
	if err := cfg.Load(); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := cfg.AssertDataDir(); err != nil {
		log.Fatal().Err(err).Msg("startup precondition failed")
	}

	if *profilePath != "" {
		f, err := os.Create(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	runner, err := automatic.NewGameRunner(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("creating game runner")
	}
	if err := runner.RunSeries(cfg.Matches); err != nil {
		log.Fatal().Err(err).Msg("running matches")
	}
}
