package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/pharma-pulse/app/news"
)

// RefreshFeedTask runs one scheduled refresh of a session's feed. Fetch
// failures are part of the feed state, so the task never retries.
type RefreshFeedTask struct {
	Task
	session *news.Session
}

func NewRefreshFeedTask(session *news.Session) *RefreshFeedTask {
	task := NewTask(TaskTypeRefreshFeed, session.ID)
	task.MaxRetries = 0

	return &RefreshFeedTask{
		Task:    task,
		session: session,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	state := t.session.Refresh(ctx)

	slog.Info("Task completed",
		"type", t.GetType(),
		"session", t.Target,
		"duration", t.GetDuration(),
		"status", state.Status,
		"articles", len(state.Articles))

	return state.Err
}
