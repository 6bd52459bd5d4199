// Package metric turns a descriptor set into a pairwise distance or
// similarity matrix. The metric is chosen per call through Kind; the result
// is a symmetric Matrix that keeps the logo ids of the set it was built from.
package metric
