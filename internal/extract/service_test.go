package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/domain"
	"github.com/pagelens/pagelens/internal/engine"
	"github.com/pagelens/pagelens/internal/observability"
)

var timestampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

// fakeEngine streams a fixed page sequence. Every Extract call produces a
// fresh stream, mirroring the real engine's non-restartable sequences.
type fakeEngine struct {
	pages     []string
	calls     int
	openErr   error
	failAfter int // fail the stream after this many pages; -1 disables
	failErr   error
}

func newFakeEngine(pages ...string) *fakeEngine {
	return &fakeEngine{pages: pages, failAfter: -1}
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Extract(ctx context.Context, data []byte) (*engine.Stream, error) {
	f.calls++
	if f.openErr != nil {
		return nil, f.openErr
	}
	stream, producer := engine.NewStream(1)
	go func() {
		for i, text := range f.pages {
			if f.failAfter >= 0 && i == f.failAfter {
				producer.Fail(f.failErr)
				return
			}
			producer.Emit(domain.PageResult{Index: i, Markdown: text})
		}
		producer.Close()
	}()
	return stream, nil
}

// fakeWriter records written page indexes and can fail a single page.
type fakeWriter struct {
	written   []int
	failIndex int // -1 disables
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{failIndex: -1}
}

func (w *fakeWriter) WritePage(page domain.PageResult, outputDir string) error {
	if page.Index == w.failIndex {
		return domain.ArtifactWriteError(fmt.Sprintf("injected failure for page %d", page.Index+1), nil)
	}
	w.written = append(w.written, page.Index)
	return nil
}

func newTestService(eng engine.Engine, writer ArtifactWriter) *Service {
	return NewService(eng, writer, observability.Nop(), Config{OutputDir: "out", MaxConcurrent: 2})
}

func encodePDF(body string) string {
	return base64.StdEncoding.EncodeToString([]byte("%PDF-1.4\n" + body))
}

func TestProcessTwoPageScenario(t *testing.T) {
	eng := newFakeEngine("Page One Text", "Page Two Text")
	writer := newFakeWriter()
	svc := newTestService(eng, writer)

	env, err := svc.Process(context.Background(), encodePDF("two pages"))
	require.NoError(t, err)

	assert.Equal(t, "Page One Text\n\nPage Two Text", env.Result)
	assert.Regexp(t, timestampRe, env.Timestamp)
	assert.Equal(t, []int{0, 1}, writer.written)
}

func TestProcessOrderPreservation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 17} {
		t.Run(fmt.Sprintf("pages=%d", n), func(t *testing.T) {
			pages := make([]string, n)
			for i := range pages {
				pages[i] = fmt.Sprintf("marker-%03d", i)
			}
			svc := newTestService(newFakeEngine(pages...), nil)

			env, err := svc.Process(context.Background(), encodePDF("doc"))
			require.NoError(t, err)

			want := ""
			for i, p := range pages {
				if i > 0 {
					want += "\n\n"
				}
				want += p
			}
			assert.Equal(t, want, env.Result)
		})
	}
}

func TestProcessZeroPagesIsNotAnError(t *testing.T) {
	svc := newTestService(newFakeEngine(), nil)

	env, err := svc.Process(context.Background(), encodePDF("empty but well-formed"))
	require.NoError(t, err)
	assert.Equal(t, "", env.Result)
	assert.Regexp(t, timestampRe, env.Timestamp)
}

func TestProcessIdempotentAggregation(t *testing.T) {
	eng := newFakeEngine("alpha", "beta", "gamma")
	svc := newTestService(eng, nil)

	first, err := svc.Process(context.Background(), encodePDF("doc"))
	require.NoError(t, err)
	second, err := svc.Process(context.Background(), encodePDF("doc"))
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	// Each run consumed a fresh engine sequence.
	assert.Equal(t, 2, eng.calls)
}

func TestProcessMalformedPayloadNeverReachesEngine(t *testing.T) {
	eng := newFakeEngine("unused")
	svc := newTestService(eng, nil)

	_, err := svc.Process(context.Background(), "not@valid@base64!!!")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeMalformedPayload, domain.TypeOf(err))
	assert.Zero(t, eng.calls)
}

func TestProcessEmptyBufferIsMalformed(t *testing.T) {
	eng := newFakeEngine("unused")
	svc := newTestService(eng, nil)

	_, err := svc.Process(context.Background(), base64.StdEncoding.EncodeToString(nil))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeMalformedPayload, domain.TypeOf(err))
	assert.Zero(t, eng.calls)
}

func TestProcessUnknownFormatRejectedBeforeEngine(t *testing.T) {
	eng := newFakeEngine("unused")
	svc := newTestService(eng, nil)

	_, err := svc.Process(context.Background(), base64.StdEncoding.EncodeToString([]byte("just text")))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnsupportedDocument, domain.TypeOf(err))
	assert.Zero(t, eng.calls)
}

func TestProcessArtifactFailureIsContained(t *testing.T) {
	eng := newFakeEngine("one", "two", "three", "four")
	writer := newFakeWriter()
	writer.failIndex = 1
	svc := newTestService(eng, writer)

	env, err := svc.Process(context.Background(), encodePDF("doc"))
	require.NoError(t, err)

	// The failed page still contributes to the aggregate; later pages are
	// still persisted.
	assert.Equal(t, "one\n\ntwo\n\nthree\n\nfour", env.Result)
	assert.Equal(t, []int{0, 2, 3}, writer.written)
}

func TestProcessEngineOpenFailure(t *testing.T) {
	eng := newFakeEngine()
	eng.openErr = domain.UnsupportedDocumentError("corrupt document", nil)
	svc := newTestService(eng, nil)

	env, err := svc.Process(context.Background(), encodePDF("doc"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnsupportedDocument, domain.TypeOf(err))
	assert.Empty(t, env.Result)
}

func TestProcessMidStreamFailureReturnsNoPartialResult(t *testing.T) {
	eng := newFakeEngine("one", "two", "three")
	eng.failAfter = 2
	eng.failErr = domain.UnsupportedDocumentError("page 3 unreadable", nil)
	writer := newFakeWriter()
	svc := newTestService(eng, writer)

	env, err := svc.Process(context.Background(), encodePDF("doc"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnsupportedDocument, domain.TypeOf(err))
	assert.Empty(t, env.Result)
	assert.Empty(t, env.Timestamp)
}

func TestProcessBytesCanceledWhileQueued(t *testing.T) {
	svc := NewService(newFakeEngine("page"), nil, observability.Nop(), Config{OutputDir: "out", MaxConcurrent: 1})

	// Occupy the only engine slot.
	svc.sem <- struct{}{}
	defer func() { <-svc.sem }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ProcessBytes(ctx, []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeEngineUnavailable, domain.TypeOf(err))
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, "", aggregate(nil))
	assert.Equal(t, "solo", aggregate([]string{"solo"}))
	assert.Equal(t, "a\n\nb\n\nc", aggregate([]string{"a", "b", "c"}))
}
