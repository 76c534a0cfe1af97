package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookstore-api/internal/dto/request"
	"bookstore-api/internal/usecase"
	"bookstore-api/pkg/apperr"
	"bookstore-api/pkg/metrics"
	"bookstore-api/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signup handles POST /api/users/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if _, err := h.service.Signup(r.Context(), &req); err != nil {
		metrics.IncAccountEvent("signup", outcome(err))
		handleServiceError(w, h.log, err, "signup")
		return
	}

	metrics.IncAccountEvent("signup", "ok")
	utils.ResponseCreated(w, utils.MessageResponse{Message: "User created successfully"})
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		metrics.IncAccountEvent("login", outcome(err))
		handleServiceError(w, h.log, err, "login")
		return
	}

	metrics.IncAccountEvent("login", "ok")
	utils.ResponseSuccess(w, resp)
}

// outcome labels a failed account event by error kind.
func outcome(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return string(appErr.Kind)
	}
	return string(apperr.KindInternal)
}
