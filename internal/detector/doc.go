// Package detector runs the duplicate-detection pipeline over one sequence.
//
// The pipeline is a fixed linear pass: frame matching across clips, grouping
// of matches into segment pairs, optional audio refinement, a minimum
// duration filter and a preserve-tag filter. The first failing stage aborts
// the analysis and no partial results are returned. Running out of frames or
// finding no qualifying segment is not an error; the result is simply empty.
package detector
