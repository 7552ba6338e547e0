package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

type AuthHandler struct {
	accounts interfaces.AccountService
	logger   logger.Logger
}

func NewAuthHandler(accounts interfaces.AccountService, lgr logger.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: lgr}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
	Banned   bool   `json:"banned"`
}

func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Address:  u.Address,
		Role:     string(u.Role),
		Banned:   u.Banned,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	u, err := h.accounts.Register(r.Context(), interfaces.RegisterCommand{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, userResponse(u))
}

// Login serves three entry points, one per role, so a staff token cannot be
// minted from the customer form and vice versa.
func (h *AuthHandler) Login(requiredRole domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, &domain.ValidationError{Msg: "invalid request body"})
			return
		}

		session, err := h.accounts.Login(r.Context(), strings.TrimSpace(req.Username), req.Password, requiredRole)
		if err != nil {
			respondError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SessionResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			Username:  session.User.Username,
			Role:      string(session.User.Role),
		})
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context(), ActorFromContext(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListCustomers(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = userResponse(u)
	}
	respondJSON(w, http.StatusOK, resp)
}

type BanRequest struct {
	Banned bool `json:"banned"`
}

func (h *AuthHandler) SetBanned(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &domain.ValidationError{Msg: "invalid request body"})
		return
	}

	if err := h.accounts.SetBanned(r.Context(), ActorFromContext(r.Context()), userID, req.Banned); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user_id": userID, "banned": req.Banned})
}
