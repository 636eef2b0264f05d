// Package editor implements the product form engine behind the admin panel:
// a draft store with change subscriptions, slug derivation, collection
// toggling, sequential image uploads and the create-or-update submit gateway.
package editor

import (
	"sync"

	"shop-admin/internal/domain"
)

// Field names a mutable field of the draft, as carried by change notifications.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStock       Field = "stock"
	FieldPrice       Field = "price"
	FieldSizes       Field = "sizes"
	FieldSlug        Field = "slug"
	FieldTags        Field = "tags"
	FieldImages      Field = "images"
	FieldCategory    Field = "category"
	FieldAudience    Field = "audience"
)

// Observer receives the name of the changed field and a snapshot of the whole
// draft taken atomically with the mutation.
type Observer func(field Field, snapshot domain.DraftProduct)

type subscription struct {
	id int
	fn Observer
}

type change struct {
	field Field
	snap  domain.DraftProduct
}

// Store holds the in-progress draft for one editing session. Every mutation
// goes through a setter; observers see mutations in the order they were
// issued, each with a consistent snapshot. A setter called from inside an
// observer callback is queued and delivered after the current notification,
// never interleaved.
type Store struct {
	mu        sync.Mutex
	draft     domain.DraftProduct
	subs      []subscription
	nextSub   int
	queue     []change
	notifying bool
	closed    bool
	fieldErrs map[Field]error
}

// NewStore creates a store seeded with the given draft. Seeding is
// instantiation, not mutation: no notification is emitted for it.
func NewStore(draft domain.DraftProduct) *Store {
	return &Store{
		draft:     draft.Clone(),
		fieldErrs: make(map[Field]error),
	}
}

// Subscribe registers an observer for every subsequent mutation and returns
// its unsubscribe function. Observers are notified in registration order.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Draft returns a snapshot of the current draft.
func (s *Store) Draft() domain.DraftProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// FieldError reports the validation error recorded for a field, if any.
func (s *Store) FieldError(field Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrs[field]
}

// Close detaches all observers and turns further mutations into no-ops, so a
// late-arriving upload or save completion cannot touch a torn-down session.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = nil
	s.queue = nil
}

func (s *Store) SetTitle(v string, validate bool) {
	s.set(FieldTitle, "Title", validate, func(d *domain.DraftProduct) { d.Title = v })
}

func (s *Store) SetDescription(v string, validate bool) {
	s.set(FieldDescription, "Description", validate, func(d *domain.DraftProduct) { d.Description = v })
}

func (s *Store) SetStock(v int, validate bool) {
	s.set(FieldStock, "Stock", validate, func(d *domain.DraftProduct) { d.Stock = v })
}

func (s *Store) SetPrice(v float64, validate bool) {
	s.set(FieldPrice, "Price", validate, func(d *domain.DraftProduct) { d.Price = v })
}

func (s *Store) SetSlug(v string, validate bool) {
	s.set(FieldSlug, "Slug", validate, func(d *domain.DraftProduct) { d.Slug = v })
}

func (s *Store) SetCategory(v domain.Category, validate bool) {
	s.set(FieldCategory, "Category", validate, func(d *domain.DraftProduct) { d.Category = v })
}

func (s *Store) SetAudience(v domain.Audience, validate bool) {
	s.set(FieldAudience, "Audience", validate, func(d *domain.DraftProduct) { d.Audience = v })
}

// SetSizes replaces the whole size collection.
func (s *Store) SetSizes(v []domain.Size, validate bool) {
	sizes := cloneSlice(v)
	s.set(FieldSizes, "Sizes", validate, func(d *domain.DraftProduct) { d.Sizes = sizes })
}

// SetTags replaces the whole tag collection.
func (s *Store) SetTags(v []string, validate bool) {
	tags := cloneSlice(v)
	s.set(FieldTags, "Tags", validate, func(d *domain.DraftProduct) { d.Tags = tags })
}

// SetImages replaces the whole image collection.
func (s *Store) SetImages(v []string, validate bool) {
	images := cloneSlice(v)
	s.set(FieldImages, "Images", validate, func(d *domain.DraftProduct) { d.Images = images })
}

// AppendImage appends one resource locator, preserving upload order.
func (s *Store) AppendImage(locator string) {
	s.set(FieldImages, "Images", false, func(d *domain.DraftProduct) {
		d.Images = append(cloneSlice(d.Images), locator)
	})
}

// set applies the mutation and validation under the lock, queues the change
// and drains the queue unless a drain is already running further up the
// stack. Draining outside the lock lets observers call setters back without
// deadlocking; the queue keeps delivery in mutation order regardless.
func (s *Store) set(field Field, structField string, validate bool, mutate func(*domain.DraftProduct)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	mutate(&s.draft)
	if validate {
		if err := validateField(s.draft, structField); err != nil {
			s.fieldErrs[field] = err
		} else {
			delete(s.fieldErrs, field)
		}
	}
	s.queue = append(s.queue, change{field: field, snap: s.draft.Clone()})
	if s.notifying {
		s.mu.Unlock()
		return
	}
	s.notifying = true
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		subs := make([]subscription, len(s.subs))
		copy(subs, s.subs)
		s.mu.Unlock()
		for _, sub := range subs {
			sub.fn(next.field, next.snap)
		}
		s.mu.Lock()
	}
	s.notifying = false
	s.mu.Unlock()
}

// load replaces the draft wholesale without notifying; used by hydration.
func (s *Store) load(draft domain.DraftProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.draft = draft.Clone()
	s.fieldErrs = make(map[Field]error)
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
