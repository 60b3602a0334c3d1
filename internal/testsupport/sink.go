package testsupport

import (
	"context"
	"sync"

	"podbridge/internal/protocol"
)

// RecordingSink captures every publication for assertions. FailPublishes
// injects transient failures into Publish.
type RecordingSink struct {
	mu            sync.Mutex
	descriptors   []protocol.Descriptor
	metadata      []protocol.Metadata
	queues        [][]protocol.QueueItem
	active        []bool
	failPublishes int
	publishErr    error
}

// NewRecordingSink returns an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// FailPublishes makes the next n Publish calls return err.
func (s *RecordingSink) FailPublishes(n int, err error) {
	s.mu.Lock()
	s.failPublishes = n
	s.publishErr = err
	s.mu.Unlock()
}

func (s *RecordingSink) Publish(_ context.Context, desc protocol.Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPublishes > 0 {
		s.failPublishes--
		return s.publishErr
	}
	s.descriptors = append(s.descriptors, desc)
	return nil
}

func (s *RecordingSink) PublishMetadata(_ context.Context, meta protocol.Metadata) error {
	s.mu.Lock()
	s.metadata = append(s.metadata, meta)
	s.mu.Unlock()
	return nil
}

func (s *RecordingSink) PublishQueue(_ context.Context, items []protocol.QueueItem) error {
	copied := make([]protocol.QueueItem, len(items))
	copy(copied, items)
	s.mu.Lock()
	s.queues = append(s.queues, copied)
	s.mu.Unlock()
	return nil
}

func (s *RecordingSink) SetActive(active bool) {
	s.mu.Lock()
	s.active = append(s.active, active)
	s.mu.Unlock()
}

// Descriptors returns the descriptors published so far.
func (s *RecordingSink) Descriptors() []protocol.Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.Descriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out
}

// LastDescriptor returns the most recent descriptor and whether one exists.
func (s *RecordingSink) LastDescriptor() (protocol.Descriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.descriptors) == 0 {
		return protocol.Descriptor{}, false
	}
	return s.descriptors[len(s.descriptors)-1], true
}

// Metadata returns the now-playing records published so far.
func (s *RecordingSink) Metadata() []protocol.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.Metadata, len(s.metadata))
	copy(out, s.metadata)
	return out
}

// Queues returns the queue publications so far.
func (s *RecordingSink) Queues() [][]protocol.QueueItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]protocol.QueueItem, len(s.queues))
	copy(out, s.queues)
	return out
}

// ActiveTransitions returns every SetActive value in order.
func (s *RecordingSink) ActiveTransitions() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.active))
	copy(out, s.active)
	return out
}
