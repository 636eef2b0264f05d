package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"shop-admin/internal/domain"
)

// State is the lifecycle phase of an editing session.
type State int

const (
	StateLoading State = iota
	StateEditing
	StateSaving
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateRedirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// TemplateSlug hydrates a blank draft instead of looking up a product.
const TemplateSlug = "new"

// Lookup resolves a slug to a persisted product at hydration time.
type Lookup interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

// Session is one continuous editing interaction, from hydration until the
// caller navigates away. It owns the draft store and the slug watcher; the
// draft is never shared across sessions. Field edits are allowed in every
// state; only the submit path is mutually excluded, via the saving flag.
type Session struct {
	store   *Store
	watcher *slugWatcher
	logger  *zap.Logger

	saving atomic.Bool

	mu           sync.Mutex
	state        State
	identity     domain.Identity
	redirectSlug string
	lastErr      error
}

// NewSession creates a session in the Loading state with a blank draft and
// the title-to-slug watcher attached.
func NewSession(logger *zap.Logger) *Session {
	store := NewStore(domain.DraftProduct{})
	s := &Session{
		store:    store,
		logger:   logger,
		state:    StateLoading,
		identity: domain.NewProduct{},
	}
	s.watcher = watchSlug(store)
	return s
}

// Hydrate loads the draft for the given slug. TemplateSlug starts a create
// session with a blank draft; anything else looks the product up and starts
// an edit session. A lookup failure leaves the session in Loading, and the
// caller is expected to bail out to the catalog list rather than render.
func (s *Session) Hydrate(ctx context.Context, slug string, lookup Lookup) error {
	if slug == TemplateSlug {
		s.store.load(domain.DraftProduct{})
		s.mu.Lock()
		s.identity = domain.NewProduct{}
		s.state = StateEditing
		s.mu.Unlock()
		return nil
	}

	p, err := lookup.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("hydrate %q: %w", slug, err)
	}

	s.store.load(domain.DraftFromProduct(p))
	s.mu.Lock()
	s.identity = domain.Existing{ID: p.ID}
	s.state = StateEditing
	s.mu.Unlock()
	return nil
}

// HydrateExisting starts an edit session directly from an already-fetched
// product, skipping the slug lookup.
func (s *Session) HydrateExisting(p *domain.Product) {
	s.store.load(domain.DraftFromProduct(p))
	s.mu.Lock()
	s.identity = domain.Existing{ID: p.ID}
	s.state = StateEditing
	s.mu.Unlock()
}

// Store exposes the draft store for field-level edits.
func (s *Session) Store() *Store { return s.store }

// Draft returns a snapshot of the current draft.
func (s *Session) Draft() domain.DraftProduct { return s.store.Draft() }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Identity() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// RedirectSlug is the slug the session was re-addressed to after a create.
func (s *Session) RedirectSlug() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirectSlug
}

// Err is the error surfaced by the last failed save, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ToggleTag flips tag membership.
func (s *Session) ToggleTag(tag string) {
	s.tagsField().toggle(tag)
}

// ToggleSize flips size-variant membership.
func (s *Session) ToggleSize(size domain.Size) {
	s.sizesField().toggle(size)
}

// CommitTag adds a tag entered through the delimiter-triggered input. Adding
// an existing tag is a no-op; blank input is ignored.
func (s *Session) CommitTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	s.tagsField().addIfAbsent(tag)
}

func (s *Session) tagsField() fieldAccess[string] {
	return fieldAccess[string]{
		get: func() []string { return s.store.Draft().Tags },
		set: func(v []string) { s.store.SetTags(v, true) },
	}
}

func (s *Session) sizesField() fieldAccess[domain.Size] {
	return fieldAccess[domain.Size]{
		get: func() []domain.Size { return s.store.Draft().Sizes },
		set: func(v []domain.Size) { s.store.SetSizes(v, true) },
	}
}

// Close ends the session: the watcher subscription is torn down and the store
// stops accepting mutations. Outstanding uploads or saves are not cancelled;
// their completions land on the closed store as no-ops.
func (s *Session) Close() {
	s.watcher.close()
	s.store.Close()
}

// beginSave acquires the single-flight save lock. Exactly one concurrent
// caller wins; everyone else must treat the submit as a no-op.
func (s *Session) beginSave() bool {
	if !s.saving.CompareAndSwap(false, true) {
		return false
	}
	s.mu.Lock()
	s.state = StateSaving
	s.mu.Unlock()
	return true
}

func (s *Session) failSave(err error) {
	s.mu.Lock()
	s.state = StateEditing
	s.lastErr = err
	s.mu.Unlock()
	s.saving.Store(false)
}

func (s *Session) finishUpdate() {
	s.mu.Lock()
	s.state = StateEditing
	s.lastErr = nil
	s.mu.Unlock()
	s.saving.Store(false)
}

func (s *Session) finishCreate(slug string) {
	s.mu.Lock()
	s.state = StateRedirecting
	s.redirectSlug = slug
	s.lastErr = nil
	s.mu.Unlock()
	s.saving.Store(false)
}
