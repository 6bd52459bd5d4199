package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/logosim/config"
	"github.com/viant/logosim/descriptor"
	"github.com/viant/logosim/metric"
	"github.com/viant/logosim/report"
	"go.uber.org/zap"
)

// Result is the outcome for one family. Err is set when the family could
// not be clustered; Report is then empty.
type Result struct {
	Family  descriptor.Family
	Kind    metric.Kind
	Report  report.Report
	Skipped []descriptor.Entry
	Elapsed time.Duration
	Err     error
}

// Runner wires the collaborators of a run. URLs and Logger are optional.
type Runner struct {
	Source descriptor.Source
	URLs   descriptor.URLResolver
	Logger *zap.Logger
}

// Run clusters every family in order. It fails only when the source is
// missing, the URL resolver fails or ctx is done; per-family errors are
// recorded on the results.
func (r *Runner) Run(ctx context.Context, families []config.Family) ([]Result, error) {
	if r.Source == nil {
		return nil, fmt.Errorf("pipeline: source is nil")
	}
	logger := r.logger()
	urls := map[string]string{}
	if r.URLs != nil {
		var err error
		if urls, err = r.URLs.URLs(ctx); err != nil {
			return nil, fmt.Errorf("pipeline: resolve urls: %w", err)
		}
	}
	logger.Debug("resolved logo urls", zap.Int("urls", len(urls)))

	results := make([]Result, 0, len(families))
	for i := range families {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.runFamily(ctx, &families[i], urls)
		if res.Err != nil {
			logger.Error("family failed", zap.String("family", string(res.Family)), zap.Error(res.Err))
		} else {
			logger.Info("family clustered",
				zap.String("family", string(res.Family)),
				zap.String("metric", string(res.Kind)),
				zap.Int("logos", res.Report.Size()),
				zap.Int("clusters", res.Report.Clusters()),
				zap.Int("skipped", len(res.Skipped)),
				zap.Duration("elapsed", res.Elapsed))
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runFamily(ctx context.Context, f *config.Family, urls map[string]string) (res Result) {
	started := time.Now()
	res = Result{Family: f.Descriptor(), Report: report.Build(f.Descriptor(), nil, nil)}
	defer func() { res.Elapsed = time.Since(started) }()

	partitioner, err := f.Partitioner()
	if err != nil {
		res.Err = err
		return res
	}
	if res.Kind, err = f.Kind(); err != nil {
		res.Err = err
		return res
	}
	entries, err := r.Source.Descriptors(ctx, res.Family)
	if err != nil {
		res.Err = fmt.Errorf("pipeline: load %s descriptors: %w", res.Family, err)
		return res
	}
	set, skipped, err := descriptor.Collect(res.Family, entries, f.SkipInvalid)
	if err != nil {
		res.Err = err
		return res
	}
	res.Skipped = skipped
	for _, e := range skipped {
		r.logger().Warn("skipped descriptor",
			zap.String("family", string(res.Family)),
			zap.String("id", e.ID),
			zap.Int("dim", len(e.Vector)),
			zap.Int("want", set.Dim()))
	}
	if set.Len() == 0 {
		return res
	}

	m, err := metric.Compute(set, res.Kind, f.MetricOptions()...)
	if err != nil {
		res.Err = err
		return res
	}
	groups, err := partitioner.Partition(m)
	if err != nil {
		res.Err = err
		return res
	}
	res.Report = report.Build(res.Family, groups, urls)
	return res
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
