// Package descriptor defines the logo descriptor model consumed by the
// similarity engine. It includes:
//   - Logo, Family and Vector types
//   - Set: an ordered, id-keyed collection of the vectors of one family
//   - Source and URLResolver interfaces implemented by external collaborators
//   - Vector encoding (BLOB) and host-derived logo identifiers
package descriptor
