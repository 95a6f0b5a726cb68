package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/archimorph/archimorph-server/internal/api/middleware"
	"github.com/archimorph/archimorph-server/internal/api/services"
	"github.com/archimorph/archimorph-server/internal/auth"
	"github.com/archimorph/archimorph-server/internal/repositories"
	"github.com/google/uuid"
)

// Store calls never hang on a stuck database; they fail as transient errors.
const storeTimeout = 5 * time.Second

// Handler bundles the stores and services the routes need. Constructed once
// in main, no ambient globals.
type Handler struct {
	users   *repositories.UserStore
	chats   *repositories.ChatStore
	issuer  *auth.Issuer
	bot     services.Responder
	avatars *repositories.AvatarStorage
}

func New(users *repositories.UserStore, chats *repositories.ChatStore, issuer *auth.Issuer, bot services.Responder, avatars *repositories.AvatarStorage) *Handler {
	return &Handler{
		users:   users,
		chats:   chats,
		issuer:  issuer,
		bot:     bot,
		avatars: avatars,
	}
}

func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

// currentUserID reads the authenticated identity placed by the auth
// middleware.
func currentUserID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := middleware.UserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
