package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Trigger is what asked for a render.
type Trigger string

const (
	TriggerTimer             Trigger = "timer"
	TriggerSelectionChanged  Trigger = "selection_changed"
	TriggerResolutionChanged Trigger = "resolution_changed"
	TriggerTableLoaded       Trigger = "table_loaded"
)

// Outcome is how a render request ended.
type Outcome string

const (
	OutcomeRendered    Outcome = "rendered"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeNoSelection Outcome = "no_selection"
	OutcomeEmpty       Outcome = "empty"
	OutcomeFailed      Outcome = "failed"
)

// SchedulerState is Idle or Rendering.
type SchedulerState string

const (
	StateIdle      SchedulerState = "idle"
	StateRendering SchedulerState = "rendering"
)

// RenderFunc runs one render cycle.
type RenderFunc func(ctx context.Context, trigger Trigger) (Outcome, error)

// RenderScheduler admits at most one render at a time. A request arriving
// while a render is in flight is dropped, not queued.
type RenderScheduler struct {
	inFlight atomic.Bool
	render   RenderFunc
}

func NewRenderScheduler(render RenderFunc) *RenderScheduler {
	return &RenderScheduler{render: render}
}

// RequestRender runs a render cycle unless one is already running, in which
// case it returns OutcomeSkipped immediately. The guard is cleared on every
// exit path, including a panic inside the cycle.
func (s *RenderScheduler) RequestRender(ctx context.Context, trigger Trigger) (outcome Outcome, err error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return OutcomeSkipped, nil
	}
	defer s.inFlight.Store(false)

	defer func() {
		if r := recover(); r != nil {
			outcome, err = OutcomeFailed, fmt.Errorf("render panic: %v", r)
		}
	}()

	return s.render(ctx, trigger)
}

// State reports whether a render is in flight.
func (s *RenderScheduler) State() SchedulerState {
	if s.inFlight.Load() {
		return StateRendering
	}
	return StateIdle
}
