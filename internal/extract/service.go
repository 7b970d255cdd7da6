// Package extract orchestrates the document processing pipeline: decode the
// payload, drive the extraction engine over every page, aggregate the
// textual renderings in order, persist diagnostic artifacts, and assemble
// the response envelope.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/domain"
	"github.com/pagelens/pagelens/internal/engine"
	"github.com/pagelens/pagelens/internal/observability"
	"github.com/pagelens/pagelens/internal/payload"
)

// pageSeparator joins consecutive page renderings in the aggregated result.
const pageSeparator = "\n\n"

// ArtifactWriter persists one page's diagnostic artifacts.
type ArtifactWriter interface {
	WritePage(page domain.PageResult, outputDir string) error
}

// Config holds per-service settings fixed at startup.
type Config struct {
	// OutputDir receives the per-page artifacts.
	OutputDir string
	// MaxConcurrent bounds concurrent engine invocations sharing the
	// engine's fixed resource budget.
	MaxConcurrent int
}

// Service composes the decoder, the shared extraction engine, and the
// artifact writer. One instance serves all requests; the engine handle is
// the only shared resource and must be safe for concurrent Extract calls.
type Service struct {
	engine engine.Engine
	writer ArtifactWriter
	logger *observability.Logger
	cfg    Config
	sem    chan struct{}
}

// NewService creates the orchestration service around a shared engine.
// writer may be nil to disable artifact persistence.
func NewService(eng engine.Engine, writer ArtifactWriter, logger *observability.Logger, cfg Config) *Service {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &Service{
		engine: eng,
		writer: writer,
		logger: logger.WithOperation("extract"),
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Process decodes a base64 payload and runs the pipeline over it. Decoding
// failures are classified before the engine is ever invoked.
func (s *Service) Process(ctx context.Context, encoded string) (domain.Envelope, error) {
	data, format, err := payload.Decode(encoded)
	if err != nil {
		return domain.Envelope{}, err
	}
	s.logger.WithContext(ctx).Debug().
		Str("format", format.String()).
		Int("bytes", len(data)).
		Msg("Payload decoded")
	return s.ProcessBytes(ctx, data)
}

// ProcessBytes runs the pipeline over already-decoded document bytes: one
// pass over the engine's page stream feeds both the aggregate and the
// artifact writer, then the envelope is stamped with the completion time.
// Artifact failures are contained; any engine failure is fatal to the
// request and no partial result is returned.
func (s *Service) ProcessBytes(ctx context.Context, data []byte) (domain.Envelope, error) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		return domain.Envelope{}, domain.EngineUnavailableError("request canceled while waiting for engine capacity", ctx.Err())
	}

	logger := s.logger.WithContext(ctx)
	start := time.Now()

	stream, err := s.engine.Extract(ctx, data)
	if err != nil {
		return domain.Envelope{}, err
	}

	var renderings []string
	stats := domain.ProcessingStats{}
	for {
		page, ok := stream.Next()
		if !ok {
			break
		}
		renderings = append(renderings, page.Markdown)
		stats.PagesProcessed++

		if s.writer != nil {
			if werr := s.writer.WritePage(page, s.cfg.OutputDir); werr != nil {
				stats.ArtifactFailures++
				logger.Warn().Err(werr).Int("page", page.Index+1).Msg("Artifact write failed")
			}
		}
	}
	if err := stream.Err(); err != nil {
		return domain.Envelope{}, err
	}

	completed := time.Now()
	stats.TotalTime = completed.Sub(start)
	logger.Info().
		Int("pages", stats.PagesProcessed).
		Int("artifact_failures", stats.ArtifactFailures).
		Dur("elapsed", stats.TotalTime).
		Msg("Extraction complete")

	return domain.NewEnvelope(aggregate(renderings), completed), nil
}

// aggregate concatenates page renderings in order. Each page contributes its
// rendering verbatim as one unit; zero pages yield an empty result.
func aggregate(renderings []string) string {
	return strings.Join(renderings, pageSeparator)
}
