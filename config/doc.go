// Package config loads the TOML run configuration: logging settings and the
// list of descriptor families to cluster, each with its metric and
// clustering method.
package config
