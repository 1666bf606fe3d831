package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{authService: authService}
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Signup(r.Context(), service.SignupParams{
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		UserPhone: req.UserPhone,
		Password:  req.Password,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		User:  convertUserModelToDTO(result.User),
		Token: result.Token,
	})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), req.UserEmail, req.Password)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		User:  convertUserModelToDTO(result.User),
		Token: result.Token,
	})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		h.authService.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func convertUserModelToDTO(user *model.User) dto.UserDTO {
	return dto.UserDTO{
		UserID:    user.UserID,
		UserName:  user.UserName,
		UserEmail: user.UserEmail,
		UserPhone: user.UserPhone,
		Role:      user.Role,
	}
}
