package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/viant/logosim/cluster"
	"github.com/viant/logosim/descriptor"
	"github.com/viant/logosim/metric"
)

const (
	// MethodDensity clusters with DBSCAN.
	MethodDensity = "density"
	// MethodThreshold groups by thresholded similarity.
	MethodThreshold = "threshold"
)

const (
	referenceEps        = 0.5
	referenceMinSamples = 2
)

// Config is the run configuration.
type Config struct {
	Log      LogConfig `toml:"log"`
	Families []Family  `toml:"family"`
}

// Family configures the clustering of one descriptor family.
type Family struct {
	Name   string `toml:"name"`
	Metric string `toml:"metric"`
	// Method is MethodDensity or MethodThreshold; empty means MethodDensity.
	Method string `toml:"method"`

	// Eps is required for density families; it depends on the family and
	// metric.
	Eps        *float64 `toml:"eps"`
	MinSamples int      `toml:"min-samples"`

	// Threshold defaults to cluster.DefaultThreshold.
	Threshold *float64 `toml:"threshold"`
	Policy    string   `toml:"policy"`

	Gamma       *float64 `toml:"gamma"`
	Degree      int      `toml:"degree"`
	Coef0       *float64 `toml:"coef0"`
	Parallelism int      `toml:"parallelism"`
	// SkipInvalid drops entries with a mismatched dimension instead of
	// failing the family.
	SkipInvalid bool `toml:"skip-invalid"`
}

// Default returns the reference configuration: the hu, sift and orb families
// under euclidean distance with DBSCAN eps 0.5 and min-samples 2.
func Default() *Config {
	cfg := &Config{Log: LogConfig{Level: "info", Format: "console"}}
	for _, family := range []descriptor.Family{descriptor.FamilyHu, descriptor.FamilySIFT, descriptor.FamilyORB} {
		eps := referenceEps
		cfg.Families = append(cfg.Families, Family{
			Name:       string(family),
			Metric:     string(metric.KindEuclideanDistance),
			Method:     MethodDensity,
			Eps:        &eps,
			MinSamples: referenceMinSamples,
		})
	}
	return cfg
}

// Load decodes and validates the TOML file at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return finish(cfg, md)
}

// Parse decodes and validates TOML data.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return finish(cfg, md)
}

func finish(cfg *Config, md toml.MetaData) (*Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every family.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if len(c.Families) == 0 {
		return fmt.Errorf("config: no families configured")
	}
	seen := make(map[string]bool, len(c.Families))
	for i := range c.Families {
		f := &c.Families[i]
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Name] {
			return fmt.Errorf("config: family %q configured twice", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Select returns the families whose names are listed; no names means all.
func (c *Config) Select(names ...string) ([]Family, error) {
	if len(names) == 0 {
		return c.Families, nil
	}
	var out []Family
	for _, name := range names {
		found := false
		for _, f := range c.Families {
			if f.Name == name {
				out = append(out, f)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("config: family %q not configured", name)
		}
	}
	return out, nil
}

// Validate checks the family settings.
func (f *Family) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("config: family name is required")
	}
	kind, err := f.Kind()
	if err != nil {
		return err
	}
	if kind == metric.KindRBFKernel && f.Gamma != nil && !(*f.Gamma > 0) {
		return fmt.Errorf("config: family %s: rbf-kernel gamma must be positive: %w", f.Name, cluster.ErrInvalidParameter)
	}
	if f.Parallelism < 0 {
		return fmt.Errorf("config: family %s: parallelism must not be negative", f.Name)
	}
	switch f.method() {
	case MethodDensity:
		if f.Eps == nil {
			return fmt.Errorf("config: family %s: eps is required for density clustering: %w", f.Name, cluster.ErrInvalidParameter)
		}
		if *f.Eps < 0 || math.IsNaN(*f.Eps) {
			return fmt.Errorf("config: family %s: eps must not be negative: %w", f.Name, cluster.ErrInvalidParameter)
		}
		if f.MinSamples <= 0 {
			return fmt.Errorf("config: family %s: min-samples must be positive: %w", f.Name, cluster.ErrInvalidParameter)
		}
		if !kind.IsDistance() && !kind.Normalized() {
			return fmt.Errorf("config: family %s: %s has no distance form for density clustering: %w", f.Name, kind, cluster.ErrInvalidParameter)
		}
	case MethodThreshold:
		if kind.IsDistance() {
			return fmt.Errorf("config: family %s: threshold grouping needs a similarity metric, got %s: %w", f.Name, kind, cluster.ErrInvalidParameter)
		}
		if _, err := cluster.ParsePolicy(f.Policy); err != nil {
			return fmt.Errorf("config: family %s: %w", f.Name, err)
		}
		if t := f.threshold(); math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("config: family %s: threshold must be finite: %w", f.Name, cluster.ErrInvalidParameter)
		}
	default:
		return fmt.Errorf("config: family %s: unknown method %q", f.Name, f.Method)
	}
	return nil
}

// Descriptor returns the descriptor family name.
func (f *Family) Descriptor() descriptor.Family { return descriptor.Family(f.Name) }

// Kind parses the metric name.
func (f *Family) Kind() (metric.Kind, error) {
	kind, err := metric.ParseKind(f.Metric)
	if err != nil {
		return "", fmt.Errorf("config: family %s: %w", f.Name, err)
	}
	return kind, nil
}

// MetricOptions translates the kernel and parallelism settings.
func (f *Family) MetricOptions() []metric.Option {
	var opts []metric.Option
	if f.Gamma != nil {
		opts = append(opts, metric.WithGamma(*f.Gamma))
	}
	if f.Degree > 0 {
		opts = append(opts, metric.WithDegree(f.Degree))
	}
	if f.Coef0 != nil {
		opts = append(opts, metric.WithCoef0(*f.Coef0))
	}
	if f.Parallelism > 1 {
		opts = append(opts, metric.WithParallelism(f.Parallelism))
	}
	return opts
}

// Partitioner returns the clustering method of the family.
func (f *Family) Partitioner() (cluster.Partitioner, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.method() == MethodThreshold {
		policy, _ := cluster.ParsePolicy(f.Policy)
		return cluster.Threshold{Value: f.threshold(), Policy: policy}, nil
	}
	return cluster.Density{Eps: *f.Eps, MinSamples: f.MinSamples}, nil
}

func (f *Family) method() string {
	if m := strings.ToLower(strings.TrimSpace(f.Method)); m != "" {
		return m
	}
	return MethodDensity
}

func (f *Family) threshold() float64 {
	if f.Threshold == nil {
		return cluster.DefaultThreshold
	}
	return *f.Threshold
}
