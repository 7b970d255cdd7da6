// Package engine defines the contract for the structure extraction engine:
// the component that turns raw document bytes into per-page layout and text
// results. Implementations live in subpackages so the orchestration layer
// stays independent of any particular recognition backend.
package engine

import (
	"context"
)

// Engine is the structure extraction contract. One instance is created per
// process with fixed options and shared across concurrent requests, so
// Extract must be safe for concurrent use.
type Engine interface {
	// Name identifies the backing implementation.
	Name() string

	// Extract starts structure extraction over the document bytes and
	// returns a single-pass stream of page results in physical page order.
	// Documents the engine cannot open fail synchronously; per-page
	// failures surface through the stream and are fatal to the request.
	Extract(ctx context.Context, data []byte) (*Stream, error)
}

// Options enumerates the engine knobs fixed at process startup.
type Options struct {
	// Languages lists recognition language hints, e.g. ["eng"].
	Languages []string
	// RecognitionModel optionally points at an alternative trained-data
	// directory (e.g. a fast/mobile variant). Empty uses the default.
	RecognitionModel string
	// EnableOrientationClassify turns on page orientation detection.
	EnableOrientationClassify bool
	// EnableTextlineOrientation turns on per-line orientation handling.
	EnableTextlineOrientation bool
	// EnableChartRecognition turns on chart content recognition where the
	// backend supports it.
	EnableChartRecognition bool
	// CPUThreads bounds the engine's internal thread budget.
	CPUThreads int
	// RenderDPI is the rasterization resolution for PDF pages.
	RenderDPI int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Languages:  []string{"eng"},
		CPUThreads: 8,
		RenderDPI:  200,
	}
}
