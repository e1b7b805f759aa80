package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"swynk_messaging/internal/service"
	"swynk_messaging/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	senderID, ok1 := parseID(c, "senderId")
	receiverID, ok2 := parseID(c, "receiverId")
	if !ok1 || !ok2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user IDs"})
		return
	}

	messages, err := h.chatService.GetMessages(c.Request.Context(), senderID, receiverID)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	SenderID   int    `json:"senderId" binding:"required"`
	ReceiverID int    `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid message data", err)
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), req.SenderID, req.ReceiverID, req.Content)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) MarkAsRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	message, err := h.chatService.MarkAsRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Message not found")
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	conversations, err := h.chatService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, conversations)
}

type CreateConversationRequest struct {
	Participant1ID int `json:"participant1Id" binding:"required"`
	Participant2ID int `json:"participant2Id" binding:"required"`
}

// CreateConversation отдает 200 с существующим диалогом пары или 201 с новым
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid conversation data", err)
		return
	}

	conversation, created, err := h.chatService.OpenConversation(c.Request.Context(), req.Participant1ID, req.Participant2ID)
	if err != nil {
		respondError(c, err, "")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, conversation)
}
