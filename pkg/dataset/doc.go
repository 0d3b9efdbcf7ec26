// Package dataset loads feature rows for clustering runs.
//
// Rows come either from CSV input, where every non-label column must be
// numeric, or from synthetic Gaussian blobs around known centers, which
// makes runs reproducible and lets results be checked against true labels.
package dataset
