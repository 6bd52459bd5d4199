package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/viant/logosim/config"
	"github.com/viant/logosim/engine"
	"github.com/viant/logosim/store"
	"go.uber.org/zap"
)

type commonFlags struct {
	db      string
	verbose bool
}

func newFlagSet(name string, stderr io.Writer, common *commonFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&common.db, "db", "logos.sqlite", "SQLite database file")
	fs.BoolVarP(&common.verbose, "verbose", "v", false, "development logging at debug level")
	return fs
}

func openStore(path string) (*store.SQLiteStore, func() error, error) {
	db, err := engine.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	s, err := store.NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, db.Close, nil
}

func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	logger, err := cfg.Build(verbose)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return logger, nil
}
