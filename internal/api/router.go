package api

import (
	"fmt"
	"net/http"

	_ "github.com/archimorph/archimorph-server/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/archimorph/archimorph-server/internal/api/handlers"
	"github.com/archimorph/archimorph-server/internal/api/middleware"
	"github.com/archimorph/archimorph-server/internal/auth"
	"github.com/archimorph/archimorph-server/internal/config"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

func SetupRouter(cfg *config.Config, h *handlers.Handler, issuer *auth.Issuer) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	requireAuth := middleware.Auth(issuer)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /signup", h.Signup)
	authMux.HandleFunc("POST /login", h.Login)
	authMux.Handle("GET /verify", requireAuth(http.HandlerFunc(h.Verify)))
	authMux.Handle("POST /logout", requireAuth(http.HandlerFunc(h.Logout)))

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	protectedMux.HandleFunc("GET /chats", h.ListChats)
	protectedMux.HandleFunc("POST /chats", h.CreateChat)
	protectedMux.HandleFunc("GET /chats/{chatId}", h.GetChat)
	protectedMux.HandleFunc("PUT /chats/{chatId}", h.AppendMessage)
	protectedMux.HandleFunc("DELETE /chats/{chatId}", h.DeleteChat)
	protectedMux.HandleFunc("POST /chats/{chatId}/messages", h.SendMessage)

	protectedMux.HandleFunc("PUT /user/profile", h.UpdateProfile)
	protectedMux.HandleFunc("PUT /user/change-password", h.ChangePassword)
	protectedMux.HandleFunc("POST /user/avatar/presign", h.PresignAvatar)
	protectedMux.HandleFunc("POST /user/avatar/complete", h.CompleteAvatar)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			requireAuth(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
