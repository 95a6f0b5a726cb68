package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/archimorph/archimorph-server/internal/api/services"
	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/archimorph/archimorph-server/internal/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// GET /api/v1/chats
// ListChats godoc
// @Summary List the caller's chats
// @Description Returns chat summaries (no messages), most recently updated first.
// @Tags Chats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload "Chats retrieved successfully"
// @Failure 401 {object} utils.Payload "Missing or invalid token"
// @Router /api/v1/chats [get]
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	chats, err := h.chats.List(ctx, userID)
	if err != nil {
		log.WithError(err).Error("failed to list chats")
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch chats")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Chats retrieved successfully",
		Data:    map[string]any{"chats": chats},
	})
}

// POST /api/v1/chats
// CreateChat godoc
// @Summary Create a chat
// @Description Creates an empty chat seeded with a bot welcome message. Title defaults to "New Chat".
// @Tags Chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} utils.Payload "Chat created"
// @Failure 401 {object} utils.Payload "Missing or invalid token"
// @Router /api/v1/chats [post]
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Title string `json:"title"`
	}
	// An empty body is fine, the title just defaults.
	_ = json.NewDecoder(r.Body).Decode(&input)

	ctx, cancel := storeContext(r)
	defer cancel()

	chat, err := h.chats.Create(ctx, userID, input.Title)
	if err != nil {
		log.WithError(err).Error("failed to create chat")
		utils.Error(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Chat created",
		Data:    map[string]any{"chat": chat},
	})
}

// GET /api/v1/chats/{chatId}
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID, err := uuid.Parse(r.PathValue("chatId"))
	if err != nil {
		// Indistinguishable from a chat that does not exist.
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	chat, err := h.chats.Get(ctx, chatID, userID)
	switch {
	case err == nil:
		// found
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	default:
		log.WithError(err).Error("failed to fetch chat")
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch chat")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Chat retrieved successfully",
		Data:    map[string]any{"chat": chat},
	})
}

// PUT /api/v1/chats/{chatId}
//
// Raw append: stores the supplied message as-is without asking the bot.
func (h *Handler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID, err := uuid.Parse(r.PathValue("chatId"))
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	}

	var input struct {
		Message struct {
			Content string `json:"content"`
			Sender  string `json:"sender"`
		} `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Message.Content == "" {
		utils.Error(w, http.StatusBadRequest, "Message is required")
		return
	}
	sender := input.Message.Sender
	if sender == "" {
		sender = models.SenderUser
	}
	if sender != models.SenderUser && sender != models.SenderBot {
		utils.Error(w, http.StatusBadRequest, "Invalid sender")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	msg, err := h.chats.AppendMessage(ctx, chatID, userID, input.Message.Content, sender)
	switch {
	case err == nil:
		// appended
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	default:
		log.WithError(err).Error("failed to append message")
		utils.Error(w, http.StatusInternalServerError, "Failed to update chat")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Message added",
		Data:    map[string]any{"message": msg},
	})
}

// POST /api/v1/chats/{chatId}/messages
// SendMessage godoc
// @Summary Send a message and get the bot's reply
// @Description Appends the user message, obtains a chatbot response and appends it too.
// @Tags Chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path string true "Chat id"
// @Success 200 {object} utils.Payload "Both messages appended"
// @Failure 400 {object} utils.Payload "Message is required"
// @Failure 404 {object} utils.Payload "Chat not found"
// @Router /api/v1/chats/{chatId}/messages [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID, err := uuid.Parse(r.PathValue("chatId"))
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Message == "" {
		utils.Error(w, http.StatusBadRequest, "Message is required")
		return
	}

	ctx, cancel := storeContext(r)
	userMsg, err := h.chats.AppendMessage(ctx, chatID, userID, input.Message, models.SenderUser)
	cancel()
	switch {
	case err == nil:
		// appended
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	default:
		log.WithError(err).Error("failed to append user message")
		utils.Error(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	// Bot trouble degrades to an apology, the user's message is already
	// stored.
	reply, err := h.bot.Reply(r.Context(), userID.String(), input.Message)
	if err != nil {
		log.WithError(err).Warn("chatbot unavailable")
		reply = services.FallbackReply
	}

	// The store timeout bounds store latency only; a slow bot must not eat
	// into the second append's budget.
	botCtx, cancel := storeContext(r)
	defer cancel()

	botMsg, err := h.chats.AppendMessage(botCtx, chatID, userID, reply, models.SenderBot)
	if err != nil {
		log.WithError(err).Error("failed to append bot message")
		utils.Error(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Message sent",
		Data: map[string]any{
			"userMessage": userMsg,
			"botMessage":  botMsg,
		},
	})
}

// DELETE /api/v1/chats/{chatId}
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	chatID, err := uuid.Parse(r.PathValue("chatId"))
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	err = h.chats.Delete(ctx, chatID, userID)
	switch {
	case err == nil:
		// deleted
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Chat not found")
		return
	default:
		log.WithError(err).Error("failed to delete chat")
		utils.Error(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Chat deleted successfully",
	})
}
