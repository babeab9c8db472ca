package auth

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "upperroom/pkg/errors"
	httputil "upperroom/pkg/http"
	"upperroom/pkg/logger"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(svc *Service, log *logger.Logger) *Handler {
	return &Handler{service: svc, logger: log}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/admin/login", h.Login)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		h.logger.Warn("Admin login rejected", "username", req.Username)
		_ = httputil.WriteError(w, err)
		return
	}

	h.logger.Info("Admin login succeeded", "username", req.Username)
	_ = httputil.WriteSuccess(w, LoginResponse{Token: token})
}
