package editor

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"

	"shop-admin/internal/domain"
)

func TestDeriveSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Men's Running Shoes", "mens_running_shoes"},
		{"  Men's Running Shoes  ", "mens_running_shoes"},
		{"Basic Tee", "basic_tee"},
		{"HOODIE", "hoodie"},
		{"", ""},
		{"   ", ""},
		{"already_a_slug", "already_a_slug"},
	}

	for _, tc := range cases {
		if got := DeriveSlug(tc.title); got != tc.want {
			t.Errorf("DeriveSlug(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestProperty_DeriveSlugIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("deriving a slug from its own output changes nothing", prop.ForAll(
		func(title string) bool {
			once := DeriveSlug(title)
			twice := DeriveSlug(once)
			if once != twice {
				t.Logf("FAIL: DeriveSlug not idempotent for %q: %q vs %q", title, once, twice)
				return false
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("derived slugs never contain spaces or apostrophes", prop.ForAll(
		func(title string) bool {
			slug := DeriveSlug(title)
			if strings.ContainsAny(slug, " '") {
				t.Logf("FAIL: DeriveSlug(%q) = %q still has forbidden characters", title, slug)
				return false
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestSlugFollowsTitle(t *testing.T) {
	sess := NewSession(zap.NewNop())
	defer sess.Close()

	sess.Store().SetTitle("Men's Running Shoes", true)

	if got := sess.Draft().Slug; got != "mens_running_shoes" {
		t.Errorf("slug = %q, want %q", got, "mens_running_shoes")
	}

	sess.Store().SetTitle("Basic Tee", true)

	if got := sess.Draft().Slug; got != "basic_tee" {
		t.Errorf("slug after second title edit = %q, want %q", got, "basic_tee")
	}
}

func TestManualSlugEditDisablesDerivation(t *testing.T) {
	sess := NewSession(zap.NewNop())
	defer sess.Close()

	sess.Store().SetTitle("Basic Tee", true)
	sess.Store().SetSlug("hand_picked_slug", true)
	sess.Store().SetTitle("Completely Different Title", true)

	if got := sess.Draft().Slug; got != "hand_picked_slug" {
		t.Errorf("slug = %q, want the manual edit %q to survive a later title change", got, "hand_picked_slug")
	}
}

func TestWatcherDoesNotLoop(t *testing.T) {
	sess := NewSession(zap.NewNop())
	defer sess.Close()

	var slugEvents int
	unsubscribe := sess.Store().Subscribe(func(field Field, _ domain.DraftProduct) {
		if field == FieldSlug {
			slugEvents++
		}
	})
	defer unsubscribe()

	sess.Store().SetTitle("Basic Tee", true)

	// One derived slug write, then quiet: setting the same title again
	// derives the same slug and must not write it a second time.
	sess.Store().SetTitle("Basic Tee", true)

	if slugEvents != 1 {
		t.Errorf("observed %d slug writes, want exactly 1", slugEvents)
	}
}
