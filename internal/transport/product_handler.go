package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-admin/internal/domain"
	"shop-admin/internal/editor"
	"shop-admin/internal/middleware"
	"shop-admin/internal/repository"
)

// ProductPayload is the serialized draft as submitted by the admin UI.
type ProductPayload struct {
	ID          string   `json:"id,omitempty" validate:"omitempty,uuid"`
	Title       string   `json:"title" validate:"required,min=2"`
	Description string   `json:"description" validate:"required"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Price       float64  `json:"price" validate:"gte=0"`
	Sizes       []string `json:"sizes"`
	Slug        string   `json:"slug" validate:"omitempty,nospace"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	Category    string   `json:"category" validate:"omitempty,oneof=shirts pants hoodies hats"`
	Audience    string   `json:"audience" validate:"omitempty,oneof=men women kid unisex"`
}

// HydrationResponse is what an editing session starts from.
type HydrationResponse struct {
	ID    string              `json:"id,omitempty"`
	Draft domain.DraftProduct `json:"draft"`
	State string              `json:"state"`
}

// ListResponse is a page of the catalog.
type ListResponse struct {
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// OptionsResponse exposes the closed vocabularies the UI renders exhaustively.
type OptionsResponse struct {
	Categories []domain.Category `json:"categories"`
	Audiences  []domain.Audience `json:"audiences"`
	Sizes      []domain.Size     `json:"sizes"`
}

// ProductHandler drives the form engine for HTTP clients: one request is one
// short-lived editing session.
type ProductHandler struct {
	products repository.ProductRepository
	gateway  *editor.Gateway
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products repository.ProductRepository, gateway *editor.Gateway, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, gateway: gateway, logger: logger}
}

// RegisterRoutes registers the catalog admin routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{slug}", h.GetBySlug)
	r.Post("/products", h.Create)
	r.Put("/products", h.Update)
	r.Get("/catalog/options", h.Options)
}

// GetBySlug hydrates an editing session. The reserved slug "new" yields a
// blank template; an unknown slug redirects to the catalog list instead of
// rendering a broken form.
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	sess := editor.NewSession(h.logger)
	defer sess.Close()

	if err := sess.Hydrate(r.Context(), slug, h.products); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.logger.Info("Hydration for unknown slug, redirecting to list", zap.String("slug", slug))
			http.Redirect(w, r, "/admin/products", http.StatusTemporaryRedirect)
			return
		}
		h.logger.Error("Hydration failed", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	resp := HydrationResponse{
		Draft: sess.Draft(),
		State: sess.State().String(),
	}
	if id, ok := sess.Identity().(domain.Existing); ok {
		resp.ID = id.ID.String()
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Create handles POST: a draft without an identifier, insert semantics.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ProductPayload
	if !h.decodePayload(w, r, &payload) {
		return
	}
	if payload.ID != "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "a new product must not carry an id")
		return
	}

	sess := editor.NewSession(h.logger)
	defer sess.Close()
	if err := sess.Hydrate(r.Context(), editor.TemplateSlug, nil); err != nil {
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	h.applyPayload(sess, payload)

	result, ok := h.submit(w, r, sess)
	if !ok {
		return
	}

	w.Header().Set("Location", "/admin/products/"+sess.RedirectSlug())
	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

// Update handles PUT: a draft carrying its identifier, replace semantics.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload ProductPayload
	if !h.decodePayload(w, r, &payload) {
		return
	}
	if payload.ID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "an update must carry the product id")
		return
	}

	id, err := uuid.Parse(payload.ID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	existing, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product for update", zap.String("id", payload.ID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	sess := editor.NewSession(h.logger)
	defer sess.Close()
	sess.HydrateExisting(existing)

	h.applyPayload(sess, payload)

	result, ok := h.submit(w, r, sess)
	if !ok {
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// List returns a page of the catalog, newest first.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	products, total, err := h.products.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Options returns the fixed vocabularies.
func (h *ProductHandler) Options(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, OptionsResponse{
		Categories: domain.Categories,
		Audiences:  domain.Audiences,
		Sizes:      domain.Sizes,
	})
}

func (h *ProductHandler) decodePayload(w http.ResponseWriter, r *http.Request, payload *ProductPayload) bool {
	if err := middleware.DecodeAndValidate(r, payload); err != nil {
		h.logger.Debug("Product payload validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// applyPayload routes every submitted field through the draft store. The
// title goes first so slug derivation fires; an explicitly submitted slug
// that differs from the derived one lands last and counts as a manual edit.
func (h *ProductHandler) applyPayload(sess *editor.Session, payload ProductPayload) {
	store := sess.Store()
	store.SetTitle(payload.Title, true)
	store.SetDescription(payload.Description, true)
	store.SetStock(payload.Stock, true)
	store.SetPrice(payload.Price, true)
	if payload.Category != "" {
		store.SetCategory(domain.Category(payload.Category), true)
	}
	if payload.Audience != "" {
		store.SetAudience(domain.Audience(payload.Audience), true)
	}

	sizes := make([]domain.Size, 0, len(payload.Sizes))
	for _, s := range payload.Sizes {
		sizes = append(sizes, domain.Size(s))
	}
	store.SetSizes(sizes, true)
	store.SetTags(payload.Tags, true)
	store.SetImages(payload.Images, false)

	if payload.Slug != "" && payload.Slug != sess.Draft().Slug {
		store.SetSlug(payload.Slug, true)
	}
}

// submit runs the gateway and writes the error cases. Returns the result and
// whether the caller should keep going.
func (h *ProductHandler) submit(w http.ResponseWriter, r *http.Request, sess *editor.Session) (*editor.SubmitResult, bool) {
	result, err := h.gateway.Submit(r.Context(), sess)
	if err == nil {
		return result, true
	}

	switch {
	case errors.Is(err, editor.ErrNotEnoughImages):
		middleware.RespondWithError(w, http.StatusBadRequest, "at least 2 images are required")
	case errors.Is(err, editor.ErrSaveInFlight):
		middleware.RespondWithError(w, http.StatusConflict, "a save is already in progress")
	case errors.Is(err, repository.ErrSlugTaken):
		middleware.RespondWithError(w, http.StatusConflict, "slug already in use")
	default:
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(validationErrors))
			return nil, false
		}
		h.logger.Error("Submit failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save product")
	}
	return nil, false
}
