package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
	"github.com/custodia-labs/ragent/internal/core/services"
)

// fakeIngest records what it was asked to ingest.
type fakeIngest struct {
	report      *domain.IngestReport
	err         error
	filesErr    error
	dirs        []string
	fileBatches [][]string
}

func (f *fakeIngest) Ingest(_ context.Context, dir string) (*domain.IngestReport, error) {
	f.dirs = append(f.dirs, dir)
	return f.report, f.err
}

func (f *fakeIngest) IngestFiles(_ context.Context, paths []string) (*domain.IngestReport, error) {
	f.fileBatches = append(f.fileBatches, paths)
	if f.filesErr != nil {
		return nil, f.filesErr
	}
	return &domain.IngestReport{Files: len(paths), Documents: len(paths), Chunks: 2 * len(paths)}, nil
}

// fakeAsk returns a fixed answer.
type fakeAsk struct {
	answer    *domain.Answer
	err       error
	questions []string
}

func (f *fakeAsk) Ask(ctx context.Context, q string) (string, error) {
	a, err := f.Answer(ctx, q)
	if err != nil {
		return "", err
	}
	return a.Text, nil
}

func (f *fakeAsk) Answer(_ context.Context, q string) (*domain.Answer, error) {
	f.questions = append(f.questions, q)
	return f.answer, f.err
}

func (f *fakeAsk) Retrieve(context.Context, string, int) ([]domain.ScoredChunk, error) {
	return nil, nil
}

// fakeStatus returns fixed diagnostics.
type fakeStatus struct {
	status       *domain.Status
	embeddingErr error
	llmErr       error
}

func (f *fakeStatus) Status(context.Context) (*domain.Status, error) {
	return f.status, nil
}

func (f *fakeStatus) CheckConnectivity(context.Context) (embeddingErr, llmErr error) {
	return f.embeddingErr, f.llmErr
}

// fakeBackend implements Backend over the fakes above.
type fakeBackend struct {
	settings driving.SettingsService
	ingest   *fakeIngest
	ask      *fakeAsk
	status   *fakeStatus

	openErr error
	docsDir string
	batches [][]string
	prompts []string
	keys    map[domain.AIProvider]string
	topK    int
	closed  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		settings: services.NewSettingsService(memory.NewConfigStore()),
		ingest:   &fakeIngest{report: &domain.IngestReport{}},
		ask:      &fakeAsk{answer: &domain.Answer{Text: "Cats are mammals."}},
		status:   &fakeStatus{status: &domain.Status{Settings: domain.DefaultSettings()}},
		docsDir:  "data",
		keys:     make(map[domain.AIProvider]string),
	}
}

func (b *fakeBackend) Settings() driving.SettingsService { return b.settings }

func (b *fakeBackend) Status() (driving.StatusService, error) { return b.status, nil }

func (b *fakeBackend) OpenIngest(context.Context) (driving.IngestService, func() error, error) {
	if b.openErr != nil {
		return nil, nil, b.openErr
	}
	return b.ingest, b.closeFn, nil
}

func (b *fakeBackend) OpenAsk(_ context.Context, topK int) (driving.AskService, func() error, error) {
	b.topK = topK
	if b.openErr != nil {
		return nil, nil, b.openErr
	}
	return b.ask, b.closeFn, nil
}

func (b *fakeBackend) Watch(context.Context, string) (<-chan []string, error) {
	ch := make(chan []string, len(b.batches))
	for _, batch := range b.batches {
		ch <- batch
	}
	close(ch)
	return ch, nil
}

func (b *fakeBackend) DocumentsDir() string { return b.docsDir }

func (b *fakeBackend) SaveKey(provider domain.AIProvider, key string) error {
	b.keys[provider] = key
	return nil
}

func (b *fakeBackend) WritePrompts() ([]string, error) { return b.prompts, nil }

func (b *fakeBackend) closeFn() error {
	b.closed++
	return nil
}

// execute runs the root command with fresh flag values.
func execute(t *testing.T, b Backend, stdin string, args ...string) (string, error) {
	t.Helper()

	ingestDir, ingestWatch = "", false
	askTopK, askSources, askJSON = 0, false, false
	statusCheck, verbose = false, false

	if b != nil {
		SetBackend(b)
	}
	t.Cleanup(func() {
		SetBackend(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := Execute(context.Background())
	return buf.String(), err
}
