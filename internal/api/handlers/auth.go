package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/archimorph/archimorph-server/internal/utils"
	log "github.com/sirupsen/logrus"
)

// POST /api/v1/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		utils.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	user, err := h.users.Create(ctx, input.Email, input.Password, input.FirstName, input.LastName)
	switch {
	case err == nil:
		// created
	case errors.Is(err, models.ErrDuplicateEmail):
		utils.Error(w, http.StatusConflict, "User already exists")
		return
	default:
		log.WithError(err).Error("signup failed")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		log.WithError(err).Error("failed to create token")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User registered successfully",
		Data: map[string]any{
			"token": token,
			"user":  user,
		},
	})
}

// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	user, err := h.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		// user found
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	default:
		log.WithError(err).Error("login lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !h.users.VerifyPassword(user, input.Password) {
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		log.WithError(err).Error("failed to create token")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data: map[string]any{
			"token": token,
			"user":  user,
		},
	})
}

// GET /api/v1/auth/verify
// Verify godoc
// @Summary Verify the bearer token
// @Description Returns the authenticated user for a valid token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload "Token is valid"
// @Failure 401 {object} utils.Payload "Missing or invalid token"
// @Failure 404 {object} utils.Payload "User no longer exists"
// @Router /api/v1/auth/verify [get]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	user, err := h.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		// found
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	default:
		log.WithError(err).Error("verify lookup failed")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Token is valid",
		Data:    map[string]any{"user": user},
	})
}

// POST /api/v1/auth/logout
//
// There is no server-side revocation list: the client discards its token and
// the token stays verifiable until its natural expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}
