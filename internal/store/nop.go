package store

import (
	"fmt"
	"time"

	"github.com/rghosal/cvpilot/internal/model"
)

// NopStore is a no-op store used when history is disabled. Nothing is
// persisted and the history view is always empty.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(model.HistoryRecord) error { return nil }

func (s *NopStore) List(int) ([]model.HistoryRecord, error) { return nil, nil }

func (s *NopStore) Get(id string) (model.HistoryRecord, error) {
	return model.HistoryRecord{}, fmt.Errorf("run %s not found", id)
}

func (s *NopStore) Cleanup(time.Duration) error { return nil }

func (s *NopStore) Close() error { return nil }
