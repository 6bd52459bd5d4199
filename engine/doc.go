// Package engine opens modernc.org/sqlite connections for the descriptor
// store and registers the SQL scalar functions desc_l2 and desc_cosine over
// encoded descriptor BLOBs.
package engine
