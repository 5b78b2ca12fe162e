package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/pharma-pulse/app/reader"
)

type Extractor interface {
	Extract(ctx context.Context, url string) (reader.Content, error)
}

var _ Extractor = (*reader.Extractor)(nil)

// ExtractContentTask downloads an article page and stores its readable
// content under the article id.
type ExtractContentTask struct {
	Task
	URL       string
	extractor Extractor
	store     *reader.Store
}

func NewExtractContentTask(articleID, url string, extractor Extractor, store *reader.Store) *ExtractContentTask {
	return &ExtractContentTask{
		Task:      NewTask(TaskTypeExtractContent, articleID),
		URL:       url,
		extractor: extractor,
		store:     store,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.URL == "" {
		t.MaxRetries = 0
		return fmt.Errorf("article has no link")
	}

	content, err := t.extractor.Extract(ctx, t.URL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	t.store.Complete(t.Target, content)

	slog.Info("Task completed",
		"type", t.GetType(),
		"article", t.Target,
		"duration", t.GetDuration(),
		"text_length", len(content.Text))

	return nil
}

func (t *ExtractContentTask) OnFailure(err error) {
	t.store.Fail(t.Target, err)
}
