// Package deps locates the external binaries dupsweep shells out to and
// reports whether they are usable.
package deps
