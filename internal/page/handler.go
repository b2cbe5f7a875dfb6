// AngelaMos | 2026
// handler.go

package page

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/biolink-labs/biolink-api/internal/core"
	"github.com/biolink-labs/biolink-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/page", func(r chi.Router) {
		// Public reads and the click beacon carry no token.
		r.Get("/id/{pageId}", h.GetByID)
		r.Get("/url/{url}", h.GetByURL)
		r.Post("/component-clicks", h.ComponentClicks)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/url/renderer/{url}", h.GetRendererByURL)
			r.Get("/all/user/{userId}", h.ListByUser)
			r.Post("/", h.Create)
			r.Put("/", h.Update)
			r.Delete("/id/{pageId}", h.Delete)
		})
	})
}

func actorFrom(r *http.Request) Actor {
	return Actor{
		UserID: middleware.GetUserID(r.Context()),
		Email:  middleware.GetUserEmail(r.Context()),
		AuthID: middleware.GetAuthID(r.Context()),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgs.PageInvalid)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Create(r.Context(), actorFrom(r), msgs, &req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	pageID := chi.URLParam(r, "pageId")
	if pageID == "" {
		core.BadRequest(w, msgs.PageIDMissing)
		return
	}

	p, err := h.service.GetByID(r.Context(), msgs, pageID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) GetByURL(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	url := chi.URLParam(r, "url")
	if url == "" {
		core.BadRequest(w, msgs.URLMissing)
		return
	}

	p, err := h.service.GetByURL(r.Context(), msgs, url)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) GetRendererByURL(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	url := chi.URLParam(r, "url")
	if url == "" {
		core.BadRequest(w, msgs.URLMissing)
		return
	}

	p, err := h.service.GetRendererByURL(r.Context(), msgs, url)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		core.BadRequest(w, msgs.UserIDMissing)
		return
	}

	pages, err := h.service.ListByUser(r.Context(), actorFrom(r), msgs, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, pages)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgs.PageInvalid)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Update(r.Context(), actorFrom(r), msgs, &req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	pageID := chi.URLParam(r, "pageId")
	if pageID == "" {
		core.BadRequest(w, msgs.PageIDMissing)
		return
	}

	err := h.service.Delete(r.Context(), actorFrom(r), msgs, pageID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Message(w, msgs.PageDeleted)
}

// ComponentClicks is the public click beacon. It always answers 200: the
// renderer fires it blind and a miss must not surface as a client error.
func (h *Handler) ComponentClicks(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	var req ComponentClicksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgs.PageInvalid)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	h.service.IncrementComponentClicks(r.Context(), req.PageID, req.ComponentID)

	core.Message(w, msgs.ClicksRegistered)
}
