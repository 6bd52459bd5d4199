package main

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/logosim/config"
	"github.com/viant/logosim/pipeline"
)

func runCluster(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("cluster", stderr, &common)
	configPath := fs.StringP("config", "c", "", "TOML configuration; defaults to the hu, sift and orb reference families")
	families := fs.StringSlice("family", nil, "families to cluster (default all configured)")
	asJSON := fs.Bool("json", false, "write JSON reports instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	selected, err := cfg.Select(*families...)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, common.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s, closeDB, err := openStore(common.db)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	runner := &pipeline.Runner{Source: s, URLs: s, Logger: logger}
	results, err := runner.Run(ctx, selected)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(stderr, "family %s: %v\n", res.Family, res.Err)
			continue
		}
		if *asJSON {
			err = res.Report.WriteJSON(stdout)
		} else {
			err = res.Report.WriteText(stdout)
		}
		if err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("cluster: %d of %d families failed", failed, len(results))
	}
	return nil
}
