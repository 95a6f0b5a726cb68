package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/archimorph/archimorph-server/internal/repositories"
	"github.com/archimorph/archimorph-server/internal/utils"
	log "github.com/sirupsen/logrus"
)

// PUT /api/v1/user/profile
//
// The target user is always the token's user. A userId in the body is
// tolerated for older clients but must match; a mismatch looks like a
// missing user.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		UserID        string  `json:"userId"`
		FirstName     *string `json:"firstName"`
		LastName      *string `json:"lastName"`
		Avatar        *string `json:"avatar"`
		Theme         *string `json:"theme"`
		Language      *string `json:"language"`
		Notifications *bool   `json:"notifications"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.UserID != "" && input.UserID != userID.String() {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	user, err := h.users.UpdateProfile(ctx, userID, repositories.ProfileUpdate{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		ProfileImage:  input.Avatar,
		Theme:         input.Theme,
		Language:      input.Language,
		Notifications: input.Notifications,
	})
	switch {
	case err == nil:
		// updated
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	default:
		log.WithError(err).Error("profile update failed")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile updated",
		Data:    map[string]any{"user": user},
	})
}

// PUT /api/v1/user/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		UserID          string `json:"userId"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.CurrentPassword == "" || input.NewPassword == "" {
		utils.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if input.UserID != "" && input.UserID != userID.String() {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	err := h.users.ChangePassword(ctx, userID, input.CurrentPassword, input.NewPassword)
	switch {
	case err == nil:
		// changed
	case errors.Is(err, models.ErrPasswordTooShort):
		utils.Error(w, http.StatusBadRequest, "New password must be at least 6 characters")
		return
	case errors.Is(err, models.ErrWrongPassword):
		utils.Error(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	default:
		log.WithError(err).Error("password change failed")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Password updated successfully",
	})
}
