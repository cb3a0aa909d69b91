package recorder

import (
	"context"
	"log/slog"
	"time"

	"casebot/app/client/jsonl"
	"casebot/app/client/mongo"
	"casebot/app/config"
	"casebot/app/service/queue"

	"github.com/samber/do"
)

const writeTimeout = 5 * time.Second

// Store is where recorded documents end up.
type Store interface {
	Insert(ctx context.Context, collection string, document map[string]any) error
}

// Service records analytics and feedback in the background. Callers never wait and never see errors.
type Service struct {
	store               Store
	queueSvc            *queue.Service
	analyticsCollection string
	feedbackCollection  string
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	var store Store
	if cfg.Mongo.URL != "" {
		store = do.MustInvoke[*mongo.Client](di)
	} else {
		slog.Info("Mongo is not configured, recording to journal", "path", cfg.Journal.Path)
		store = do.MustInvoke[*jsonl.Store](di)
	}

	return NewService(cfg.Mongo, store, do.MustInvoke[*queue.Service](di)), nil
}

func NewService(cfg config.Mongo, store Store, queueSvc *queue.Service) *Service {
	return &Service{
		store:               store,
		queueSvc:            queueSvc,
		analyticsCollection: cfg.AnalyticsCollection,
		feedbackCollection:  cfg.FeedbackCollection,
	}
}

func (s *Service) Insert(collection string, document map[string]any) {
	s.queueSvc.Add(collection, document)
}

func (s *Service) Analytics(document map[string]any) {
	s.Insert(s.analyticsCollection, document)
}

func (s *Service) Feedback(document map[string]any) {
	s.Insert(s.feedbackCollection, document)
}

// Run writes queued records until ctx is done or the queue is closed.
// Records still queued when ctx ends are flushed before returning.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.drain()
			return
		case rec, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}

			s.write(ctx, rec)
		}
	}
}

func (s *Service) drain() {
	for {
		select {
		case rec, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}

			s.write(context.Background(), rec)
		default:
			return
		}
	}
}

func (s *Service) write(ctx context.Context, rec queue.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	start := time.Now()
	if err := s.store.Insert(ctx, rec.Collection, rec.Document); err != nil {
		slog.Warn("Failed to record document",
			"collection", rec.Collection,
			"error", err,
		)
		return
	}

	slog.Debug("Recorded document",
		"collection", rec.Collection,
		"delay", start.Sub(rec.At),
		"duration", time.Since(start),
	)
}
