package main

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/archimorph/archimorph-server/internal/api"
	"github.com/archimorph/archimorph-server/internal/api/handlers"
	"github.com/archimorph/archimorph-server/internal/api/services"
	"github.com/archimorph/archimorph-server/internal/auth"
	"github.com/archimorph/archimorph-server/internal/config"
	"github.com/archimorph/archimorph-server/internal/repositories"
)

func main() {
	cfg := config.Load()

	db, err := repositories.Connect(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}

	users := repositories.NewUserStore(db)
	chats := repositories.NewChatStore(db)
	issuer := auth.NewIssuer(cfg.JWTSecret)
	bot := services.NewResponder(cfg.Chatbot)
	avatars := repositories.NewAvatarStorage(cfg.R2)
	if avatars == nil {
		log.Warn("R2 not configured, avatar uploads disabled")
	}

	h := handlers.New(users, chats, issuer, bot, avatars)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(cfg, h, issuer),
		// Timeouts prevent resource exhaustion from slow clients. The write
		// timeout leaves room for a slow chatbot backend.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting ArchiMorph server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
