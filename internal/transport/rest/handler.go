// Package rest provides HTTP handlers for the product catalog.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	cerrors "github.com/catalogsvc/catalog/internal/errors"
	"github.com/catalogsvc/catalog/internal/service"
	"github.com/catalogsvc/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// fieldMessages maps a failing payload field to the message returned to the
// caller. Only the first violation (in field declaration order) is reported.
var fieldMessages = map[string]string{
	"Name":     "Name is required and must be a non-empty string",
	"Price":    "Price is required and must be a non-negative number",
	"Category": "Category is required and must be a non-empty string",
}

// jsonFieldMessages mirrors fieldMessages keyed by wire names, for payloads
// that are well-formed JSON but carry a wrong-typed field: the type check is
// part of the validation contract, so it answers with the same field message.
var jsonFieldMessages = map[string]string{
	"name":     fieldMessages["Name"],
	"price":    fieldMessages["Price"],
	"category": fieldMessages["Category"],
}

type Handler struct {
	service  service.CatalogService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the catalog API with the provided service.
func NewHandler(svc service.CatalogService, logger *slog.Logger) *Handler {
	v := validator.New()
	// notblank rejects strings that are empty after trimming.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Handler{
		service:  svc,
		validate: v,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service. The auth
// middleware guards the mutating routes only; reads stay open.
func (h *Handler) RegisterRoutes(r *chi.Mux, auth func(http.Handler) http.Handler) {
	r.Get("/", h.Root)
	r.Get("/healthz", h.HealthCheck)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.With(auth).Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.With(auth).Put("/", h.Update)
			r.With(auth).Delete("/", h.DeleteByID)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		web.RespondError(w, h.logger, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		web.RespondError(w, h.logger, http.StatusNotFound, "Route not found")
	})
}

// Root is the service banner endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, map[string]string{
		"message": "Product Catalog API is running",
	})
}

// List retrieves one page of products, optionally narrowed by search,
// category and stock filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	query := parseListQuery(r)

	mLogger.DebugContext(r.Context(), "Received request to list products",
		"search", query.Search, "category", query.Category, "page", query.Page, "limit", query.Limit)
	page, err := h.service.List(r.Context(), query)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list",
		"count", len(page.Products), "total", page.Total)
	web.RespondJSON(w, mLogger, http.StatusOK, page)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	payload, ok := h.decodeAndValidate(w, r, mLogger)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), *payload)
	if err != nil {
		if errors.Is(err, cerrors.ErrDuplicateProduct) {
			mLogger.WarnContext(r.Context(), "Duplicate product name", "Name", *payload.Name)
			web.RespondError(w, mLogger, http.StatusConflict, "Product with this name already exists")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update replaces a product wholesale; the ID in the path wins.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	payload, ok := h.decodeAndValidate(w, r, mLogger)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, *payload)
	if err != nil {
		switch {
		case errors.Is(err, cerrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
		case errors.Is(err, cerrors.ErrDuplicateProduct):
			mLogger.WarnContext(r.Context(), "Duplicate product name on update", "ID", id, "Name", *payload.Name)
			web.RespondError(w, mLogger, http.StatusConflict, "Product with this name already exists")
		default:
			mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID and echoes the removed record.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")

	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	removed, err := h.service.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{
		"message": "Product deleted successfully",
		"product": removed,
	})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeAndValidate parses the request body into a ProductPayload and runs
// field validation, responding with 400 and reporting failure on error.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (*service.ProductPayload, bool) {
	var payload service.ProductPayload
	// An empty body decodes as io.EOF and validates like an empty payload.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if message, known := jsonFieldMessages[typeErr.Field]; known {
				mLogger.WarnContext(r.Context(), "Validation failed",
					"field", typeErr.Field, "rule", "type")
				web.RespondError(w, mLogger, http.StatusBadRequest, message)
				return nil, false
			}
		}
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			// Short-circuit on the first violation, in field order.
			first := validationErrors[0]
			message, known := fieldMessages[first.Field()]
			if !known {
				message = "Invalid request body"
			}
			mLogger.WarnContext(r.Context(), "Validation failed",
				"field", first.Field(), "rule", first.Tag())
			web.RespondError(w, mLogger, http.StatusBadRequest, message)
			return nil, false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return &payload, true
}

// parseListQuery extracts the list parameters. page and limit are
// parse-or-default: non-numeric or missing values silently fall back to the
// defaults rather than erroring.
func parseListQuery(r *http.Request) service.ListQuery {
	params := r.URL.Query()
	query := service.ListQuery{
		Search:   params.Get("search"),
		Category: params.Get("category"),
		Page:     parseOrDefault(params.Get("page"), defaultPage),
		Limit:    parseOrDefault(params.Get("limit"), defaultLimit),
	}
	// The stock filter applies whenever the parameter is present; any value
	// other than "true" (the empty string included) filters to out-of-stock.
	if params.Has("inStock") {
		want := params.Get("inStock") == "true"
		query.InStock = &want
	}
	return query
}

func parseOrDefault(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
