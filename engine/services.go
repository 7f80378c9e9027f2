package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/mwantia/packfs/data"
)

// ShutdownFunc releases a single service.
type ShutdownFunc func(ctx context.Context) error

// Services owns everything created during startup. Services are shut down
// in the reverse order of their registration.
type Services struct {
	mu       sync.Mutex
	services []*service
}

type service struct {
	name     string
	shutdown ShutdownFunc
}

// Register adds a service that gets released by Shutdown.
func (s *Services) Register(name string, shutdown ShutdownFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.services = append(s.services, &service{
		name:     name,
		shutdown: shutdown,
	})
}

// Names returns the registered services in registration order.
func (s *Services) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.services))
	for _, svc := range s.services {
		names = append(names, svc.name)
	}

	return names
}

// Shutdown releases all services, newest first. Every service is released
// even if an earlier one failed; all failures are returned together.
func (s *Services) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := &data.Errors{}
	for i := len(s.services) - 1; i >= 0; i-- {
		svc := s.services[i]
		if err := svc.shutdown(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to shutdown %s: %w", svc.name, err))
		}
	}
	s.services = nil

	return errs.Errors()
}
