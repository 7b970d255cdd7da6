// Package domain holds the data model and error taxonomy shared across the
// extraction pipeline.
package domain

import (
	"image"
	"time"
)

// TimestampFormat is the completion-time format returned in the response
// envelope.
const TimestampFormat = "2006-01-02 15:04:05"

// LayoutBlock is one detected layout region on a page: its recognized text,
// pixel bounds on the rendered page, and recognition confidence in [0,1].
type LayoutBlock struct {
	Text       string
	Bounds     image.Rectangle
	Confidence float64
}

// PageResult is one page's structured output, produced in physical page
// order. Immutable once produced.
type PageResult struct {
	// Index is the zero-based position of the page in the source document.
	Index int
	// Markdown is the canonical textual rendering of the page in reading
	// order. It contributes to the aggregated result verbatim, as one unit.
	Markdown string
	// Blocks carries the layout detections backing Markdown.
	Blocks []LayoutBlock
	// Image is the rendered page the detections refer to. Nil when the
	// producing engine does not rasterize; artifact writing then falls back
	// to the textual rendering only.
	Image image.Image
}

// Envelope is the response returned to the caller: the aggregated textual
// result and the formatted completion time.
type Envelope struct {
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

// NewEnvelope builds the envelope for a result completed at the given time.
func NewEnvelope(result string, completedAt time.Time) Envelope {
	return Envelope{
		Result:    result,
		Timestamp: completedAt.Format(TimestampFormat),
	}
}

// ProcessingStats summarizes one request's pipeline execution for logging.
type ProcessingStats struct {
	TotalTime        time.Duration
	PagesProcessed   int
	ArtifactFailures int
}
