// Package store persists logos and their descriptor vectors in SQLite. It is
// the exchange point between the external feature extractor, which writes
// descriptors, and the similarity pipeline, which reads them through the
// descriptor.Source and descriptor.URLResolver interfaces.
package store
