// Package pipeline runs the similarity engine over the configured descriptor
// families: it loads vectors from a descriptor.Source, builds the pairwise
// matrix, partitions it and joins the groups to the logo URLs.
//
// A failing family is reported on its Result and does not stop the others.
package pipeline
