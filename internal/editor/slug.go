package editor

import (
	"strings"
	"sync"

	"shop-admin/internal/domain"
)

// DeriveSlug turns a display title into a URL-safe identifier: trim the ends,
// replace interior spaces with underscores, drop apostrophes, lowercase.
// Applying it to its own output changes nothing.
func DeriveSlug(title string) string {
	s := strings.TrimSpace(title)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")
	return strings.ToLower(s)
}

// slugWatcher keeps the slug derived from the title. It reacts to title
// changes only, and backs off permanently once the slug has been written by
// anyone else: the last writer of a field owns it, and a hand-edited slug is
// never clobbered by a later title change.
type slugWatcher struct {
	store *Store

	mu      sync.Mutex
	pending int // slug writes issued by the watcher, not yet observed
	manual  bool
	stop    func()
}

func watchSlug(store *Store) *slugWatcher {
	w := &slugWatcher{store: store}
	w.stop = store.Subscribe(w.onChange)
	return w
}

func (w *slugWatcher) onChange(field Field, snap domain.DraftProduct) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch field {
	case FieldSlug:
		if w.pending > 0 {
			// our own write coming back through the store
			w.pending--
			return
		}
		w.manual = true
	case FieldTitle:
		if w.manual {
			return
		}
		derived := DeriveSlug(snap.Title)
		if derived == snap.Slug {
			return
		}
		w.pending++
		w.store.SetSlug(derived, true)
	}
}

func (w *slugWatcher) close() {
	w.stop()
}
