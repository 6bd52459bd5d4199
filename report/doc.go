// Package report joins a partition back to the originating URLs and renders
// it as text or JSON. Members without a known URL are kept and marked.
package report
