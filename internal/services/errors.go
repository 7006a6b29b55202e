// internal/services/errors.go
package services

import "errors"

var (
	// ErrInsufficientData: < 2 titik pakai, jalur sentinel (bukan kegagalan).
	ErrInsufficientData = errors.New("insufficient data")
	// ErrFitDivergence: solver tidak konvergen atau bounds tidak konsisten.
	ErrFitDivergence = errors.New("fit divergence")
)
