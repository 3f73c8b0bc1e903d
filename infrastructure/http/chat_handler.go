package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/code-wave07/ChatMeAPI/auth"
	"github.com/code-wave07/ChatMeAPI/domain"
	"github.com/code-wave07/ChatMeAPI/errors"
	"github.com/code-wave07/ChatMeAPI/services"
)

type ChatHandler struct {
	memberships  services.IMembershipService
	messages     services.IMessageService
	readReceipts services.IReadReceiptService
	directory    services.IDirectoryService
	log          *slog.Logger
}

func NewChatHandler(memberships services.IMembershipService, messages services.IMessageService,
	readReceipts services.IReadReceiptService, directory services.IDirectoryService,
	log *slog.Logger) *ChatHandler {
	return &ChatHandler{
		memberships:  memberships,
		messages:     messages,
		readReceipts: readReceipts,
		directory:    directory,
		log:          log,
	}
}

// fail translates a core failure into its HTTP status; the error text is
// already user-safe by the time it reaches this layer.
func fail(c *gin.Context, err error) {
	c.JSON(errors.MapToHTTPStatus(err), gin.H{"error": err.Error()})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

type createPrivateRequest struct {
	TargetUserID string `json:"targetUserId" binding:"required"`
}

func (h *ChatHandler) CreatePrivate(c *gin.Context) {
	var req createPrivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.memberships.CreatePrivate(c.Request.Context(), auth.UserID(c), req.TargetUserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": id})
}

type createGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"memberIds"`
}

func (h *ChatHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.memberships.CreateGroup(c.Request.Context(), auth.UserID(c), req.Name, req.MemberIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversationId": id})
}

type memberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type memberAction func(c *gin.Context, conversationID uuid.UUID, targetID string) error

func (h *ChatHandler) memberEndpoint(c *gin.Context, action memberAction) {
	conversationID, ok := pathUUID(c, "conversationId")
	if !ok {
		return
	}
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := action(c, conversationID, req.UserID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) AddMember(c *gin.Context) {
	h.memberEndpoint(c, func(c *gin.Context, conversationID uuid.UUID, targetID string) error {
		return h.memberships.AddMember(c.Request.Context(), auth.UserID(c), conversationID, targetID)
	})
}

func (h *ChatHandler) RemoveMember(c *gin.Context) {
	h.memberEndpoint(c, func(c *gin.Context, conversationID uuid.UUID, targetID string) error {
		return h.memberships.RemoveMember(c.Request.Context(), auth.UserID(c), conversationID, targetID)
	})
}

func (h *ChatHandler) PromoteToAdmin(c *gin.Context) {
	h.memberEndpoint(c, func(c *gin.Context, conversationID uuid.UUID, targetID string) error {
		return h.memberships.PromoteToAdmin(c.Request.Context(), auth.UserID(c), conversationID, targetID)
	})
}

func (h *ChatHandler) DemoteToMember(c *gin.Context) {
	h.memberEndpoint(c, func(c *gin.Context, conversationID uuid.UUID, targetID string) error {
		return h.memberships.DemoteToMember(c.Request.Context(), auth.UserID(c), conversationID, targetID)
	})
}

func (h *ChatHandler) Leave(c *gin.Context) {
	conversationID, ok := pathUUID(c, "conversationId")
	if !ok {
		return
	}
	if err := h.memberships.Leave(c.Request.Context(), auth.UserID(c), conversationID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ChatHandler) Rename(c *gin.Context) {
	conversationID, ok := pathUUID(c, "conversationId")
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.memberships.Rename(c.Request.Context(), auth.UserID(c), conversationID, req.Name); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type sendRequest struct {
	ConversationID uuid.UUID `json:"conversationId" binding:"required"`
	Content        string    `json:"content"`
	MediaURL       *string   `json:"mediaUrl"`
	MessageType    string    `json:"messageType"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := domain.ParseMessageKind(req.MessageType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.messages.Send(c.Request.Context(), auth.UserID(c), services.SendRequest{
		ConversationID: req.ConversationID,
		Content:        req.Content,
		MediaURL:       req.MediaURL,
		Kind:           kind,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	conversationID, ok := pathUUID(c, "conversationId")
	if !ok {
		return
	}
	history, err := h.messages.GetHistory(c.Request.Context(), auth.UserID(c), conversationID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := pathUUID(c, "messageId")
	if !ok {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), auth.UserID(c), messageID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	conversationID, ok := pathUUID(c, "conversationId")
	if !ok {
		return
	}
	if err := h.readReceipts.MarkRead(c.Request.Context(), auth.UserID(c), conversationID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) SearchUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, err := h.directory.SearchUsers(c.Request.Context(), auth.UserID(c),
		c.Query("q"), c.Query("cursor"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": page.Users, "nextCursor": page.NextCursor})
}

func (h *ChatHandler) ListInbox(c *gin.Context) {
	inbox, err := h.directory.ListInbox(c.Request.Context(), auth.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inbox)
}
