// Package similarity scores how alike two sampled frames are.
//
// Histograms are compared with normalized intersection and motion vectors
// with cosine similarity remapped to [0,1]. FrameSimilarity blends the two
// with fixed weights. Degenerate input (mismatched lengths, empty vectors,
// zero magnitude) always scores 0 rather than failing.
package similarity
