package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/matchpairs/internal/engine"
	"github.com/example/matchpairs/internal/game"
	"github.com/example/matchpairs/internal/importer"
	"github.com/example/matchpairs/internal/store"
)

// The engine is a library consumed by an external UI; this entrypoint covers
// the admin-side chores: first-run seeding, pool status, and bulk import.
func main() {
	importPath := flag.String("import", "", "bulk-import image URLs from an .xlsx or .csv file")
	status := flag.Bool("status", false, "print per-tier image pool status")
	flag.Parse()

	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	st, err := store.Open(getEnv("MATCHPAIRS_DB", "./data/matchpairs.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	eng, err := engine.New(st, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize engine")
	}
	eng.Start()
	defer eng.Stop()

	switch {
	case *importPath != "":
		// Pool curation is gated by an explicit local flag, not a hidden
		// route.
		if getEnv("MATCHPAIRS_ADMIN", "") != "1" {
			log.Fatal().Msg("pool curation requires MATCHPAIRS_ADMIN=1")
		}
		res, err := importer.Import(importer.DefaultConfig(*importPath), eng)
		if err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}
		for _, msg := range res.Errors {
			log.Warn().Msg(msg)
		}
		log.Info().Int("processed", res.Processed).Int("created", res.Created).
			Int("skipped", res.Skipped).Msg("import finished")
	case *status:
		tiers := eng.PoolStatus()
		for _, d := range game.Difficulties {
			ts := tiers[d]
			log.Info().Str("difficulty", string(d)).Int("count", ts.Count).
				Int("required", ts.Required).Bool("playable", ts.Valid).Msg("tier status")
		}
	default:
		log.Info().Msg("engine ready; use -import or -status")
	}

	eng.FlushDirty()
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
