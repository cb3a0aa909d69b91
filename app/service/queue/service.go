package queue

import (
	"log/slog"
	"time"

	"github.com/samber/do"
)

const bufferSize = 256

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	queue chan Record
}

// Record is one document waiting to be written to a sink collection.
type Record struct {
	Collection string
	Document   map[string]any
	At         time.Time
}

func New(_ *do.Injector) (*Service, error) {
	return NewService(bufferSize), nil
}

func NewService(size int) *Service {
	return &Service{
		queue: make(chan Record, size),
	}
}

// Add enqueues without blocking. A full or closed queue drops the record.
func (s *Service) Add(collection string, document map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("record queue is closed", "collection", collection)
		}
	}()

	select {
	case s.queue <- Record{Collection: collection, Document: document, At: time.Now()}:
	default:
		slog.Warn("record queue is full", "collection", collection)
	}
}

func (s *Service) Channel() <-chan Record {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
