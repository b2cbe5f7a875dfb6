// AngelaMos | 2026
// handler.go

package user

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
	r.Route("/users", func(r chi.Router) {
		// Sign-up and the existence probe run before a session exists.
		r.Post("/", h.Create)
		r.Get("/exists", h.Exists)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/onboardings", h.CompleteOnboarding)
		})
	})
}

// RegisterSystemRoutes mounts the surface the payments service calls back
// into, guarded by the shared API key instead of a bearer token.
func (h *Handler) RegisterSystemRoutes(
	r chi.Router,
	apiKeyGuard func(http.Handler) http.Handler,
) {
	r.Route("/system/users", func(r chi.Router) {
		r.Use(apiKeyGuard)

		r.Get("/{email}", h.GetByEmailForSystem)
		r.Put("/payment-id", h.UpdatePaymentID)
	})
}

// Get looks a user up by id, email, or auth id query parameter.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	u, err := h.service.Get(
		r.Context(),
		msgs,
		r.URL.Query().Get("userId"),
		r.URL.Query().Get("email"),
		r.URL.Query().Get("authId"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, u)
}

// Exists answers a bare boolean body, no envelope.
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	id := r.URL.Query().Get("userId")
	email := r.URL.Query().Get("email")

	if id == "" && email == "" {
		core.BadRequest(w, msgs.EmailOrAuthID)
		return
	}

	core.OK(w, h.service.Exists(r.Context(), id, email))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgs.UserInvalid)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Create(
		r.Context(),
		middleware.GetAuthID(r.Context()),
		msgs,
		&req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgs.UserInvalid)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Update(
		r.Context(),
		middleware.GetAuthID(r.Context()),
		msgs,
		&req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	result, err := h.service.Delete(
		r.Context(),
		middleware.GetAuthID(r.Context()),
		msgs,
		r.URL.Query().Get("userId"),
		r.URL.Query().Get("authId"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) GetByEmailForSystem(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	email := chi.URLParam(r, "email")
	if email == "" {
		core.BadRequest(w, msgs.EmailOrAuthID)
		return
	}

	u, err := h.service.Get(r.Context(), msgs, "", email, "")
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) UpdatePaymentID(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	var req PaymentIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgs.UserInvalid)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.UpdatePaymentID(
		r.Context(),
		msgs,
		req.Email,
		req.PaymentID,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, u)
}

func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	msgs := middleware.GetMessages(r.Context())

	var req OnboardingEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, msgs.UserInvalid)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.CompleteOnboarding(
		r.Context(),
		msgs,
		req.UserID,
		req.Event,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, u)
}
