package metrics

import (
	"context"

	"github.com/hyeonwoo/lessondesk/internal/remote"
)

// InstrumentStore wraps a remote.Store so every round trip is counted.
func (c *Collector) InstrumentStore(inner remote.Store) remote.Store {
	return &instrumentedStore{inner: inner, collector: c}
}

type instrumentedStore struct {
	inner     remote.Store
	collector *Collector
}

func (s *instrumentedStore) Select(ctx context.Context, collection string, q remote.Query) ([]remote.Record, error) {
	records, err := s.inner.Select(ctx, collection, q)
	s.collector.RecordRemoteCall(collection, err)
	return records, err
}

func (s *instrumentedStore) Insert(ctx context.Context, collection string, records []remote.Record) ([]remote.Record, error) {
	written, err := s.inner.Insert(ctx, collection, records)
	s.collector.RecordRemoteCall(collection, err)
	return written, err
}

func (s *instrumentedStore) Update(ctx context.Context, collection string, q remote.Query, patch remote.Record) ([]remote.Record, error) {
	touched, err := s.inner.Update(ctx, collection, q, patch)
	s.collector.RecordRemoteCall(collection, err)
	return touched, err
}
