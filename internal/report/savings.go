// Package report computes the size accounting published in run logs.
package report

import "errors"

// ErrZeroOriginal is returned when the original size is zero and the
// percentage would divide by zero.
var ErrZeroOriginal = errors.New("original size is zero, savings undefined")

// SizeSavings returns the bytes saved by compression and the percentage of
// the original size saved. Inputs are byte counts, expected non-negative.
func SizeSavings(originalBytes, compressedBytes int64) (int64, float64, error) {
	if originalBytes == 0 {
		return 0, 0, ErrZeroOriginal
	}
	savings := originalBytes - compressedBytes
	percent := float64(savings) / float64(originalBytes) * 100
	return savings, percent, nil
}
