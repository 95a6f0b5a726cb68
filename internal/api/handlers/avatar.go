package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/archimorph/archimorph-server/internal/repositories"
	"github.com/archimorph/archimorph-server/internal/utils"
	log "github.com/sirupsen/logrus"
)

// POST /api/v1/user/avatar/presign
// PresignAvatar godoc
// @Summary Generate a presigned avatar upload URL
// @Description Returns a temporary signed URL the client PUTs the image to, plus the public URL to store as profileImage.
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload "Presigned upload URL generated successfully"
// @Failure 503 {object} utils.Payload "Avatar storage not configured"
// @Router /api/v1/user/avatar/presign [post]
func (h *Handler) PresignAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.avatars == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Avatar storage not configured")
		return
	}

	random, err := utils.RandomKey(16)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	key := fmt.Sprintf("avatars/%s/%s", userID, random)

	uploadURL, err := h.avatars.PresignUpload(r.Context(), key, 15*time.Minute)
	if err != nil {
		log.WithError(err).Error("failed to presign avatar upload")
		utils.Error(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Presigned upload URL generated successfully",
		Data: map[string]any{
			"uploadUrl": uploadURL,
			"publicUrl": h.avatars.PublicURL(key),
			"key":       key,
		},
	})
}

// POST /api/v1/user/avatar/complete
//
// Called after the client has PUT the image to the presigned URL. The object
// is verified in the bucket before profileImage is switched over, so a
// profile never points at a key that was presigned but never uploaded.
func (h *Handler) CompleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.avatars == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Avatar storage not configured")
		return
	}

	var input struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Key == "" {
		utils.Error(w, http.StatusBadRequest, "Key is required")
		return
	}
	// Only keys presigned for this user are acceptable.
	if !strings.HasPrefix(input.Key, fmt.Sprintf("avatars/%s/", userID)) {
		utils.Error(w, http.StatusBadRequest, "Invalid key")
		return
	}

	exists, err := h.avatars.ObjectExists(r.Context(), input.Key)
	if err != nil {
		log.WithError(err).Error("failed to check avatar object")
		utils.Error(w, http.StatusInternalServerError, "Failed to verify upload")
		return
	}
	if !exists {
		utils.Error(w, http.StatusNotFound, "Avatar not uploaded")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	publicURL := h.avatars.PublicURL(input.Key)
	user, err := h.users.UpdateProfile(ctx, userID, repositories.ProfileUpdate{
		ProfileImage: &publicURL,
	})
	switch {
	case err == nil:
		// updated
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	default:
		log.WithError(err).Error("failed to persist avatar")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Avatar updated",
		Data:    map[string]any{"user": user},
	})
}
