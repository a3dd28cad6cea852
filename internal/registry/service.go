// Package registry implements the gallery's bookkeeping core: resolving
// registrations, minting immutable version records, maintaining the
// latest-version flags, and transferring ownership between accounts.
//
// Every public operation runs inside one unit of work on the injected
// Store and either commits fully or leaves no trace. The core performs
// no I/O beyond its persistence and notification collaborators; callers
// needing timeouts bound the operations externally.
package registry

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/git-pkgs/gallery/internal/core"
	"github.com/git-pkgs/gallery/internal/metadata"
	"github.com/git-pkgs/gallery/internal/store"
	"github.com/git-pkgs/gallery/notify"
)

// TokenSource produces unguessable, URL-safe confirmation tokens for
// ownership transfers.
type TokenSource interface {
	Token() (string, error)
}

type cryptoTokens struct{}

func (cryptoTokens) Token() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Service owns the gallery's mutating operations.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	tokens   TokenSource
	limits   metadata.Limits
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the search-index notifier collaborator.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithTokenSource sets the confirmation token generator.
func WithTokenSource(ts TokenSource) Option {
	return func(s *Service) {
		s.tokens = ts
	}
}

// WithLimits sets the metadata validation limits.
func WithLimits(l metadata.Limits) Option {
	return func(s *Service) {
		s.limits = l
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service over the given store. By default it uses
// a crypto/rand token source, built-in limits, a no-op notifier and a
// no-op logger.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		notifier: notify.Nop{},
		tokens:   cryptoTokens{},
		limits:   metadata.DefaultLimits(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// commit flushes the unit of work, translating storage constraint
// violations into the conflict taxonomy. id and version name the
// entities being written, for the error message only.
func (s *Service) commit(id, version string) error {
	err := s.store.Commit()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDuplicateIdentity):
		return &core.ConflictError{ID: id}
	case errors.Is(err, store.ErrDuplicateVersion):
		return &core.ConflictError{ID: id, Version: version}
	default:
		return fmt.Errorf("committing %s: %w", id, err)
	}
}

// notifyChanged tells the search index that package data changed.
// Fire-and-forget: failures are logged and never fail the operation.
func (s *Service) notifyChanged(ctx context.Context) {
	if err := s.notifier.NotifyChanged(ctx); err != nil {
		s.logger.Warn("search index notification failed", zap.Error(err))
	}
}
