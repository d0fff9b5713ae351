package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/repository"
	"enoch-go/internal/service"
	"enoch-go/pkg/log"
)

// ChatHandler обрабатывает REST-операции над беседами.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler создаёт новый экземпляр ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateChatRequest — тело запроса создания беседы.
type CreateChatRequest struct {
	ModeID string `json:"modeId"`
	Folder string `json:"folder"`
}

// SendMessageRequest — тело запроса отправки сообщения.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SetModeRequest — тело запроса смены режима беседы.
type SetModeRequest struct {
	ModeID string `json:"modeId" binding:"required"`
}

// ExplainRequest — тело запроса пояснения к толкованию.
type ExplainRequest struct {
	MessageID     string `json:"messageId" binding:"required"`
	VerseIdx      *int   `json:"verseIdx" binding:"required"`
	CommentaryIdx *int   `json:"commentaryIdx" binding:"required"`
}

// List возвращает беседы пользователя от новых к старым.
func (h *ChatHandler) List(c *gin.Context) {
	user := currentUser(c)
	chats, err := h.chatService.GetChats(c.Request.Context(), user.ID)
	if err != nil {
		log.Errorf("ListChats: failed for user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить список бесед"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": chats})
}

// Create создаёт новую беседу в указанном режиме.
func (h *ChatHandler) Create(c *gin.Context) {
	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверное тело запроса"})
		return
	}
	user := currentUser(c)
	chat, err := h.chatService.CreateChat(c.Request.Context(), user.ID, req.ModeID, req.Folder)
	if err != nil {
		log.Errorf("CreateChat: failed for user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось создать беседу"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": chat})
}

// Get возвращает одну беседу целиком.
func (h *ChatHandler) Get(c *gin.Context) {
	user := currentUser(c)
	chat, err := h.chatService.GetChat(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": chat})
}

// Delete удаляет беседу пользователя.
func (h *ChatHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if err := h.chatService.DeleteChat(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}

// SendMessage добавляет в беседу сообщение и ответ модели.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "текст сообщения не может быть пустым"})
		return
	}
	user := currentUser(c)
	chat, err := h.chatService.SendMessage(c.Request.Context(), user.ID, c.Param("id"), req.Text)
	if err != nil {
		respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": chat})
}

// SetMode меняет режим пустой беседы.
func (h *ChatHandler) SetMode(c *gin.Context) {
	var req SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "modeId не может быть пустым"})
		return
	}
	user := currentUser(c)
	chat, err := h.chatService.SetChatMode(c.Request.Context(), user.ID, c.Param("id"), req.ModeID)
	if err != nil {
		respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": chat})
}

// Explain лениво генерирует пояснение к толкованию в сообщении модели.
func (h *ChatHandler) Explain(c *gin.Context) {
	var req ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messageId, verseIdx и commentaryIdx обязательны"})
		return
	}
	user := currentUser(c)
	chat, err := h.chatService.ExplainCommentary(
		c.Request.Context(), user.ID, c.Param("id"),
		req.MessageID, *req.VerseIdx, *req.CommentaryIdx,
	)
	if err != nil {
		respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": chat})
}

// respondChatError переводит ошибки сервиса бесед в HTTP-статусы.
func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "беседа не найдена"})
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "текст сообщения не может быть пустым"})
	case errors.Is(err, service.ErrChatNotEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": "режим нельзя менять после начала беседы"})
	case errors.Is(err, service.ErrModeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "режим беседы не найден"})
	case errors.Is(err, service.ErrExplainTarget):
		c.JSON(http.StatusNotFound, gin.H{"error": "толкование не найдено"})
	case errors.Is(err, service.ErrExplanationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "пояснение уже генерируется"})
	default:
		log.Errorf("chat handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
	}
}
