package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidflow/backend/internal/apperror"
	"github.com/vidflow/backend/internal/models"
	"github.com/vidflow/backend/internal/repositories"
)

// MessageHandler handles direct messaging and conversation threading
type MessageHandler struct {
	messageRepository      repositories.MessageRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository:      messageRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/inbox", h.GetInbox)
	g.GET("/messages/:username", h.GetThread)
	g.POST("/messages/:username", h.SendMessage)
}

// Conversation is one inbox entry: a peer plus the latest message between
// the viewer and that peer.
type Conversation struct {
	User        models.UserCompact `json:"user"`
	LastMessage models.Message     `json:"last_message"`
}

// GetInbox returns the viewer's conversations, one per distinct peer,
// ordered by the latest message's timestamp descending.
func (h *MessageHandler) GetInbox(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	peerIDs, err := h.messageRepository.GetPeerIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	conversations := make([]Conversation, 0, len(peerIDs))
	for _, peerID := range peerIDs {
		peer, err := h.userRepository.GetUserByID(peerID)
		if err != nil {
			continue
		}
		last, err := h.messageRepository.GetLastMessageBetween(currentUserID, peerID)
		if err != nil {
			continue
		}
		conversations = append(conversations, Conversation{
			User:        peer.ToCompact(),
			LastMessage: *last,
		})
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversations": conversations}})
}

// GetThread returns the full message history between the viewer and one
// peer, oldest first.
func (h *MessageHandler) GetThread(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	peer, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	messages, err := h.messageRepository.GetMessagesBetween(currentUserID, peer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"receiver": peer.ToCompact(),
			"messages": messages,
		},
	})
}

// SendMessage delivers a direct message and records a message notification
// for the receiver. An empty message fails validation with no mutation.
// A self-addressed message still notifies its sender; preserved as a known
// quirk pending product review.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	receiver, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		return httpError(apperror.NotFound("user"))
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return httpError(apperror.Validation("message cannot be empty"))
	}

	message := &models.Message{
		SenderID:   currentUserID,
		ReceiverID: receiver.ID,
		Text:       text,
	}
	if err := h.messageRepository.CreateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notif := &models.Notification{
		Type:        models.NotificationMessage,
		ActorID:     currentUserID,
		RecipientID: receiver.ID,
	}
	if err := h.notificationRepository.CreateNotification(notif); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"message": message}})
}
