package recorder

import drepo "PulseBoard/internal/domain/repository"

// Store records dashboard activity and lists it back.
type Store interface {
	drepo.Recorder
	drepo.RenderHistory
}

var (
	_ Store = (*SQLiteRecorder)(nil)
	_ Store = (*NoopRecorder)(nil)
)
