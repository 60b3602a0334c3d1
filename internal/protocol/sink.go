package protocol

import (
	"context"
	"sync"
)

// Sink receives session-protocol publications. Implementations must tolerate
// calls from the pipeline's background goroutine.
type Sink interface {
	Publish(ctx context.Context, desc Descriptor) error
	PublishMetadata(ctx context.Context, meta Metadata) error
	PublishQueue(ctx context.Context, items []QueueItem) error
	SetActive(active bool)
}

// SessionState is a goroutine-safe latest-value Sink. The IPC status endpoint
// reads it; the pipeline writes it.
type SessionState struct {
	mu         sync.RWMutex
	descriptor Descriptor
	metadata   Metadata
	queue      []QueueItem
	active     bool
	hasDesc    bool
}

// NewSessionState returns an empty session state holder.
func NewSessionState() *SessionState {
	return &SessionState{}
}

func (s *SessionState) Publish(_ context.Context, desc Descriptor) error {
	s.mu.Lock()
	s.descriptor = desc
	s.hasDesc = true
	s.mu.Unlock()
	return nil
}

func (s *SessionState) PublishMetadata(_ context.Context, meta Metadata) error {
	s.mu.Lock()
	s.metadata = meta
	s.mu.Unlock()
	return nil
}

func (s *SessionState) PublishQueue(_ context.Context, items []QueueItem) error {
	copied := make([]QueueItem, len(items))
	copy(copied, items)
	s.mu.Lock()
	s.queue = copied
	s.mu.Unlock()
	return nil
}

func (s *SessionState) SetActive(active bool) {
	s.mu.Lock()
	s.active = active
	s.mu.Unlock()
}

// Descriptor returns the last published descriptor and whether one exists.
func (s *SessionState) Descriptor() (Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.descriptor, s.hasDesc
}

// Metadata returns the last published now-playing record.
func (s *SessionState) Metadata() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata
}

// Queue returns the last published up-next items.
func (s *SessionState) Queue() []QueueItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]QueueItem, len(s.queue))
	copy(copied, s.queue)
	return copied
}

// Active reports whether the session is currently marked active.
func (s *SessionState) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Fanout duplicates publications across multiple sinks, returning the first
// error encountered while still attempting every sink.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, desc Descriptor) error {
	var firstErr error
	for _, sink := range f {
		if err := sink.Publish(ctx, desc); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f Fanout) PublishMetadata(ctx context.Context, meta Metadata) error {
	var firstErr error
	for _, sink := range f {
		if err := sink.PublishMetadata(ctx, meta); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f Fanout) PublishQueue(ctx context.Context, items []QueueItem) error {
	var firstErr error
	for _, sink := range f {
		if err := sink.PublishQueue(ctx, items); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f Fanout) SetActive(active bool) {
	for _, sink := range f {
		sink.SetActive(active)
	}
}
