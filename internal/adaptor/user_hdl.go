package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bookstore-api/internal/dto/request"
	"bookstore-api/internal/dto/response"
	"bookstore-api/internal/usecase"
	"bookstore-api/pkg/metrics"
	"bookstore-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetAllUsers handles GET /api/users
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	users, err := h.service.GetAllUsers(r.Context(), caller)
	if err != nil {
		handleServiceError(w, h.log, err, "get all users")
		return
	}

	utils.ResponseSuccess(w, response.UserListResponse{Users: users})
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetMe(r.Context(), caller)
	if err != nil {
		handleServiceError(w, h.log, err, "get me")
		return
	}

	utils.ResponseSuccess(w, response.UserEnvelope{User: user})
}

// GetUser handles GET /api/users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, response.UserEnvelope{User: user})
}

// ReportUser handles POST /api/users/{userId}/report
func (h *UserHandler) ReportUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	if err := h.service.ReportUser(r.Context(), caller, chi.URLParam(r, "userId")); err != nil {
		metrics.IncAccountEvent("report", outcome(err))
		handleServiceError(w, h.log, err, "report user")
		return
	}

	metrics.IncAccountEvent("report", "ok")
	utils.ResponseMessage(w, "User Reported")
}

// GetFavoriteBooks handles GET /api/users/favorites
func (h *UserHandler) GetFavoriteBooks(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	books, err := h.service.GetFavoriteBooks(r.Context(), caller)
	if err != nil {
		handleServiceError(w, h.log, err, "get favorite books")
		return
	}

	utils.ResponseSuccess(w, response.BookListResponse{Books: books})
}

// ToggleFavoriteBook handles POST /api/users/favorites
func (h *UserHandler) ToggleFavoriteBook(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req request.ToggleFavoriteRequest
	// an empty body is reported as a missing bookId by the service
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.ToggleFavoriteBook(r.Context(), caller, &req)
	if err != nil {
		metrics.IncAccountEvent("favorite", outcome(err))
		handleServiceError(w, h.log, err, "toggle favorite book")
		return
	}

	metrics.IncAccountEvent("favorite", "ok")
	utils.ResponseSuccess(w, resp)
}

// PromoteOrDemoteUser handles PATCH /api/users/{userId}/role
func (h *UserHandler) PromoteOrDemoteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	resp, err := h.service.PromoteOrDemoteUser(r.Context(), caller, chi.URLParam(r, "userId"))
	if err != nil {
		metrics.IncAccountEvent("role_change", outcome(err))
		handleServiceError(w, h.log, err, "promote or demote user")
		return
	}

	metrics.IncAccountEvent("role_change", "ok")
	utils.ResponseSuccess(w, resp)
}

func (h *UserHandler) caller(w http.ResponseWriter, r *http.Request) (utils.CallerContext, bool) {
	caller, ok := utils.GetCallerFromContext(r.Context())
	if !ok {
		h.log.Warn("Caller missing from request context", zap.String("path", r.URL.Path))
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.CallerContext{}, false
	}
	return caller, true
}
