// internal/patrons/implementation.go
package patrons

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"libranexus/internal/library"
	"libranexus/internal/platform/metrics"
	"libranexus/internal/store"
)

const (
	findByEmailLimit     = 100
	defaultAuthPerMinute = 5
)

type Option func(*service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

// WithAuthRate limits Authenticate to perMinute attempts across all
// callers, with the same burst.
func WithAuthRate(perMinute int) Option {
	return func(s *service) {
		if perMinute > 0 {
			s.rateLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		}
	}
}

// service implements the Service interface.
type service struct {
	parties     *store.Repository[*Party]
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// NewService creates a new patron service instance.
func NewService(backend store.Backend, opts ...Option) Service {
	s := &service{
		parties:     store.NewRepository[*Party](backend, PartiesTable),
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/defaultAuthPerMinute), defaultAuthPerMinute),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddPatron registers a new patron, hashing the PIN when one is given.
func (s *service) AddPatron(ctx context.Context, req AddPatronRequest) (*Party, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, library.Validation("400", "email is required")
	}
	now := library.Now()
	patron := &Party{
		PartyID:    uuid.NewString(),
		Kind:       library.PartyPatron,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      email,
		Under13:    req.Under13,
		GroupRoles: normalizeRoles(req.GroupRoles),
		HomePhone:  req.HomePhone,
		CellPhone:  req.CellPhone,
		WorkPhone:  req.WorkPhone,
		Address:    req.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.PIN != "" {
		cred, err := hashPIN(req.PIN)
		if err != nil {
			return nil, library.Runtime(err, "failed to hash pin")
		}
		patron.Credential = cred
	}

	if _, err := s.parties.Create(ctx, patron); err != nil {
		return nil, err
	}
	s.metrics.Transition("patron", "added")
	s.logger.InfoContext(ctx, "patron added", "patron_id", patron.PartyID)
	return patron.redacted(), nil
}

// UpdatePatron writes patron if its version is current. A patron sent
// without a credential keeps the stored one, and created_at always comes
// from the stored record.
func (s *service) UpdatePatron(ctx context.Context, patron *Party) (*Party, error) {
	if patron == nil || patron.PartyID == "" {
		return nil, library.Validation("400", "party_id is required")
	}
	current, err := s.parties.Get(ctx, patron.PartyID)
	if err != nil {
		return nil, err
	}
	updated := *patron
	updated.Kind = library.ParsePartyKind(string(patron.Kind))
	updated.GroupRoles = normalizeRoles(patron.GroupRoles)
	updated.CreatedAt = current.CreatedAt
	if updated.Credential == nil {
		updated.Credential = current.Credential
	}

	now := library.Now()
	if _, err := s.parties.UpdateAt(ctx, &updated, now); err != nil {
		if library.IsVersionConflict(err) {
			s.metrics.VersionConflict("patron")
		}
		return nil, err
	}
	updated.Version++
	updated.UpdatedAt = now
	s.metrics.Transition("patron", "updated")
	return updated.redacted(), nil
}

func (s *service) RemovePatron(ctx context.Context, id string) error {
	if _, err := s.parties.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.Transition("patron", "removed")
	s.logger.InfoContext(ctx, "patron removed", "patron_id", id)
	return nil
}

func (s *service) FindPatronByID(ctx context.Context, id string) (*Party, error) {
	patron, err := s.parties.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return patron.redacted(), nil
}

// FindPatronByEmail returns at most one page of patrons with that email.
func (s *service) FindPatronByEmail(ctx context.Context, email string) ([]*Party, error) {
	found, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	out := make([]*Party, 0, len(found))
	for _, p := range found {
		out = append(out, p.redacted())
	}
	return out, nil
}

func (s *service) findByEmail(ctx context.Context, email string) ([]*Party, error) {
	res, err := s.parties.Query(ctx, map[string]string{
		"email": email,
		"kind":  string(library.PartyPatron),
	}, "", findByEmailLimit)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Authenticate checks a patron's PIN. Unknown emails and wrong PINs fail
// the same way.
func (s *service) Authenticate(ctx context.Context, email, pin string) (*Party, error) {
	if !s.rateLimiter.Allow() {
		s.metrics.Rejection("patron", "rate_limited")
		return nil, library.Unavailable("rate_limited", true, "too many authentication attempts")
	}

	found, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, p := range found {
		if p.Credential == nil {
			continue
		}
		ok, err := verifyPIN(pin, p.Credential)
		if err != nil {
			return nil, library.Runtime(err, "stored credential for %s is corrupt", p.PartyID)
		}
		if ok {
			return p.redacted(), nil
		}
	}
	s.metrics.Rejection("patron", "bad_credentials")
	s.logger.WarnContext(ctx, "authentication failed", "email", email)
	return nil, library.AccessDenied("invalid email or pin")
}

func normalizeRoles(roles []library.Role) []library.Role {
	out := make([]library.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, library.ParseRole(string(r)))
	}
	return out
}
