// Package core holds the animal service: query, lookup and validated creation
// over a domain.PersistentStore, wrapped with logging, metrics and tracing.
package core

import (
	"context"
	"errors"
	"time"

	"zooapi/internal/infra/persistence/memory"
	"zooapi/pkg/domain"
)

// Operation names reported to loggers, metrics and tracers.
const (
	OpListAnimals  = "list_animals"
	OpGetAnimal    = "get_animal"
	OpCreateAnimal = "create_animal"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger. A nil logger is ignored.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder sets the recorder observing every operation.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer sets the tracer wrapping every operation in a span.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the clock used to time operations.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Service exposes the read and write operations over the animal collection.
type Service struct {
	store   domain.PersistentStore
	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		clock:   ClockFunc(time.Now),
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over an empty in-memory store.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// ListAnimals returns the records matching every filter in q, in collection
// order. The result is never nil.
func (s *Service) ListAnimals(ctx context.Context, q domain.Query) ([]domain.Animal, error) {
	var out []domain.Animal
	err := s.run(ctx, OpListAnimals, func(ctx context.Context) error {
		return s.store.View(ctx, func(v domain.TransactionView) error {
			out = v.FilterAnimals(q)
			return nil
		})
	})
	return out, err
}

// GetAnimal returns the first record whose id equals id, or domain.ErrNotFound.
func (s *Service) GetAnimal(ctx context.Context, id string) (domain.Animal, error) {
	var found domain.Animal
	err := s.run(ctx, OpGetAnimal, func(ctx context.Context) error {
		return s.store.View(ctx, func(v domain.TransactionView) error {
			a, ok := v.FindAnimal(id)
			if !ok {
				return domain.ErrNotFound{Entity: domain.EntityAnimal, ID: id}
			}
			found = a
			return nil
		})
	})
	return found, err
}

// CreateAnimal validates payload, assigns the next sequential id, appends the
// record and rewrites the backing source. Validation failures return
// domain.ErrInvalidAnimal and leave the store untouched.
func (s *Service) CreateAnimal(ctx context.Context, payload map[string]any) (domain.Animal, error) {
	var created domain.Animal
	err := s.run(ctx, OpCreateAnimal, func(ctx context.Context) error {
		candidate, err := DecodeCandidate(payload)
		if err != nil {
			return err
		}
		return s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			created, err = tx.CreateAnimal(candidate)
			return err
		})
	})
	if err == nil {
		s.logger.Info("animal created", "id", created.ID, "name", created.Name, "request_id", RequestIDFromContext(ctx))
	}
	return created, err
}

// run wraps every operation with a trace span, a metrics observation and
// error logging. Expected outcomes (not found, invalid input) log at debug.
func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	started := s.clock.Now()
	err := fn(ctx)
	elapsed := s.clock.Now().Sub(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	switch {
	case err == nil:
	case domain.IsNotFound(err), errors.Is(err, domain.ErrInvalidAnimal):
		s.logger.Debug("operation rejected", "operation", op, "error", err, "request_id", RequestIDFromContext(ctx))
	default:
		s.logger.Error("operation failed", "operation", op, "error", err, "request_id", RequestIDFromContext(ctx))
	}
	return err
}
