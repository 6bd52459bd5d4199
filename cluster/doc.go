// Package cluster partitions the logos of a pairwise metric.Matrix into
// groups. Two partitioners share the Partitioner interface:
//   - Density: density-based clustering over distances, with a noise bucket
//   - Threshold: grouping by thresholded similarity, either as connected
//     components of the similar relation or as a single order-dependent scan
package cluster
