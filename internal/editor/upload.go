package editor

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// ImageStore is the remote endpoint the coordinator uploads to. Put returns
// the resource locator under which the uploaded content can be retrieved.
type ImageStore interface {
	Put(ctx context.Context, name string, content io.Reader) (string, error)
}

// File is one user-selected file awaiting upload.
type File struct {
	Name    string
	Content io.Reader
}

// Coordinator uploads a batch of files one at a time, in selection order, and
// appends each resulting locator to the draft's image collection as soon as
// that upload succeeds, so partial progress is visible before the batch ends.
//
// On the first failure the remaining files are not attempted and locators
// already appended stay appended. There is no retry; the caller re-selects
// the files that did not make it. Isolating failures and continuing with the
// rest of the batch is a known alternative policy that has been raised with
// stakeholders but not adopted.
type Coordinator struct {
	store  *Store
	images ImageStore
	logger *zap.Logger
}

func NewCoordinator(store *Store, images ImageStore, logger *zap.Logger) *Coordinator {
	return &Coordinator{store: store, images: images, logger: logger}
}

// UploadAll processes files strictly in order, one in flight at a time. It
// returns the locators uploaded so far and, when the batch was cut short, the
// error for the file that failed.
func (c *Coordinator) UploadAll(ctx context.Context, files []File) ([]string, error) {
	locators := make([]string, 0, len(files))
	for i, f := range files {
		locator, err := c.images.Put(ctx, f.Name, f.Content)
		if err != nil {
			c.logger.Error("Image upload failed, aborting remainder of batch",
				zap.String("file", f.Name),
				zap.Int("position", i),
				zap.Int("uploaded", len(locators)),
				zap.Error(err),
			)
			return locators, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		c.store.AppendImage(locator)
		locators = append(locators, locator)
	}
	return locators, nil
}
