// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Command placeip indexes the boundaries of labelled IPv4 ranges and
// answers interactive "where is this address" queries.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/absolutelightning/go-nearest-bit-trie/internal/config"
	"github.com/absolutelightning/go-nearest-bit-trie/internal/placeip"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	fs := pflag.NewFlagSet("placeip", pflag.ExitOnError)
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: placeip [flags] filename")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		fs.Usage()
		log.Fatal().Err(err).Msg("Invalid config")
	}
	lvl, _ := cfg.Log.ParseLevel()
	zerolog.SetGlobalLevel(lvl)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Str("file", cfg.Data.File).Msg("placeip failed")
	}
}

func run(cfg *config.Config) error {
	f, err := os.Open(cfg.Data.File)
	if err != nil {
		return err
	}
	defer f.Close()

	loc, err := placeip.NewLocator(cfg.Cache.Size)
	if err != nil {
		return err
	}
	defer loc.Close()

	log.Info().Str("file", cfg.Data.File).Msg("Loading ranges")
	stats, err := loc.Load(f)
	if err != nil {
		return err
	}
	log.Info().
		Int("rows", stats.Rows).
		Int("inserted", stats.Inserted).
		Int("duplicates", stats.Duplicates).
		Msg("Finished loading")

	s := loc.Stats()
	fmt.Printf("\nheight: %d\nsize: %d\nnode_count: %d\n\n\n", s.Height, s.Size, s.NodeCount)

	if cfg.Data.Show {
		if err := loc.Show(os.Stdout); err != nil {
			return err
		}
	}

	repl := &placeip.REPL{Locator: loc, Prompt: cfg.REPL.Prompt}
	return repl.Run(os.Stdin, os.Stdout)
}
