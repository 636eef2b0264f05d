package editor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop-admin/internal/domain"
)

// fakeImageStore records upload order and fails for configured names.
type fakeImageStore struct {
	puts    []string
	failing map[string]error
}

func (f *fakeImageStore) Put(_ context.Context, name string, _ io.Reader) (string, error) {
	f.puts = append(f.puts, name)
	if err, ok := f.failing[name]; ok {
		return "", err
	}
	return "/uploads/" + name, nil
}

func batch(names ...string) []File {
	files := make([]File, 0, len(names))
	for _, n := range names {
		files = append(files, File{Name: n, Content: strings.NewReader("content of " + n)})
	}
	return files
}

func TestUploadAllAppendsInOrder(t *testing.T) {
	store := NewStore(domain.DraftProduct{})
	images := &fakeImageStore{}
	coord := NewCoordinator(store, images, zap.NewNop())

	locators, err := coord.UploadAll(context.Background(), batch("a.jpg", "b.jpg", "c.jpg"))

	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"}, locators)
	assert.Equal(t, locators, store.Draft().Images)
}

func TestUploadAllStopsAtFirstFailure(t *testing.T) {
	bad := errors.New("bucket unreachable")
	store := NewStore(domain.DraftProduct{})
	images := &fakeImageStore{failing: map[string]error{"b.jpg": bad}}
	coord := NewCoordinator(store, images, zap.NewNop())

	locators, err := coord.UploadAll(context.Background(), batch("a.jpg", "b.jpg", "c.jpg"))

	require.ErrorIs(t, err, bad)
	assert.Equal(t, []string{"/uploads/a.jpg"}, locators)
	// c.jpg was never attempted
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, images.puts)
	// partial progress survives the failure
	assert.Equal(t, []string{"/uploads/a.jpg"}, store.Draft().Images)
}

func TestUploadAllProgressIsVisiblePerFile(t *testing.T) {
	store := NewStore(domain.DraftProduct{})
	images := &fakeImageStore{}
	coord := NewCoordinator(store, images, zap.NewNop())

	var seen [][]string
	store.Subscribe(func(field Field, snap domain.DraftProduct) {
		if field == FieldImages {
			seen = append(seen, snap.Images)
		}
	})

	_, err := coord.UploadAll(context.Background(), batch("a.jpg", "b.jpg"))
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, []string{"/uploads/a.jpg"}, seen[0])
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, seen[1])
}

func TestUploadAllEmptyBatch(t *testing.T) {
	store := NewStore(domain.DraftProduct{})
	coord := NewCoordinator(store, &fakeImageStore{}, zap.NewNop())

	locators, err := coord.UploadAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, locators)
}

func TestUploadAllAgainstClosedStore(t *testing.T) {
	store := NewStore(domain.DraftProduct{})
	images := &fakeImageStore{}
	coord := NewCoordinator(store, images, zap.NewNop())

	store.Close()

	locators, err := coord.UploadAll(context.Background(), batch("a.jpg"))

	// the upload itself still happens; only the draft stays untouched
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg"}, locators)
	assert.Empty(t, store.Draft().Images)
}
