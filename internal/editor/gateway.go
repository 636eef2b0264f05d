package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-admin/internal/domain"
)

// MinImages is the default minimum number of images a submittable draft needs.
const MinImages = 2

var (
	// ErrNotEnoughImages rejects a submit before any backend call is made.
	ErrNotEnoughImages = errors.New("draft needs at least two images")
	// ErrSaveInFlight is returned to the loser of the single-flight lock.
	ErrSaveInFlight = errors.New("a save is already in flight")
)

// ProductWriter is the backend the gateway persists drafts through. Insert
// carries create semantics, Replace full-row update semantics; both return
// the authoritative persisted entity.
type ProductWriter interface {
	Insert(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Replace(ctx context.Context, p *domain.Product) (*domain.Product, error)
}

// Gateway submits a session's draft to the backend, choosing insert or
// replace by the draft's identity variant.
type Gateway struct {
	products  ProductWriter
	minImages int
	logger    *zap.Logger
}

func NewGateway(products ProductWriter, minImages int, logger *zap.Logger) *Gateway {
	if minImages <= 0 {
		minImages = MinImages
	}
	return &Gateway{products: products, minImages: minImages, logger: logger}
}

// SubmitResult carries the persisted entity and whether it was just created.
type SubmitResult struct {
	Product *domain.Product `json:"product"`
	Created bool            `json:"created"`
}

// Submit reads the draft once, gates on the image minimum and field rules,
// takes the single-flight lock and performs exactly one backend round trip.
// The draft itself is never rolled back: on failure the session returns to
// Editing with the error surfaced, and an identical retry is possible without
// re-entering anything. Edits made while the save is in flight are not part
// of the submitted snapshot.
func (g *Gateway) Submit(ctx context.Context, sess *Session) (*SubmitResult, error) {
	snap := sess.Draft()

	if len(snap.Images) < g.minImages {
		return nil, ErrNotEnoughImages
	}
	if err := ValidateDraft(snap); err != nil {
		return nil, fmt.Errorf("draft validation: %w", err)
	}

	if !sess.beginSave() {
		return nil, ErrSaveInFlight
	}

	switch id := sess.Identity().(type) {
	case domain.Existing:
		updated, err := g.products.Replace(ctx, snap.ToProduct(id.ID))
		if err != nil {
			sess.failSave(err)
			return nil, fmt.Errorf("update product: %w", err)
		}
		sess.finishUpdate()
		g.logger.Info("Product updated",
			zap.String("product_id", updated.ID.String()),
			zap.String("slug", updated.Slug),
		)
		return &SubmitResult{Product: updated}, nil

	case domain.NewProduct:
		created, err := g.products.Insert(ctx, snap.ToProduct(uuid.New()))
		if err != nil {
			sess.failSave(err)
			return nil, fmt.Errorf("create product: %w", err)
		}
		sess.finishCreate(created.Slug)
		g.logger.Info("Product created",
			zap.String("product_id", created.ID.String()),
			zap.String("slug", created.Slug),
		)
		return &SubmitResult{Product: created, Created: true}, nil

	default:
		sess.failSave(nil)
		return nil, fmt.Errorf("unhandled draft identity %T", id)
	}
}
