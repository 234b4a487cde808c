package recorder

import (
	"context"

	drepo "PulseBoard/internal/domain/repository"
)

// NoopRecorder is used when no SQLite path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTable(context.Context, drepo.TableEvent) error   { return nil }
func (n *NoopRecorder) RecordRender(context.Context, drepo.RenderEvent) error { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }

func (n *NoopRecorder) RecentRenders(context.Context, int) ([]drepo.RenderEvent, error) {
	return []drepo.RenderEvent{}, nil
}
