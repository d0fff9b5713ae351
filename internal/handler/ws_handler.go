package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"enoch-go/internal/service"
	"enoch-go/pkg/log"
	"enoch-go/pkg/token"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSChatHandler принимает WebSocket-соединения интерактивной беседы.
// Один запрос — одно сообщение пользователя; ответ приходит целиком после
// завершения генерации.
type WSChatHandler struct {
	chatService service.ChatService
	userService service.UserService
	jwtManager  *token.JWTManager
}

// NewWSChatHandler создаёт новый WSChatHandler.
func NewWSChatHandler(chatService service.ChatService, userService service.UserService, jwtManager *token.JWTManager) *WSChatHandler {
	return &WSChatHandler{
		chatService: chatService,
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// wsInbound — входящее сообщение соединения.
type wsInbound struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

// wsOutbound — исходящее сообщение соединения.
type wsOutbound struct {
	Type      string      `json:"type"`
	ChatID    string      `json:"chatId,omitempty"`
	Message   interface{} `json:"message,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Handle обрабатывает входящее WebSocket-соединение.
func (h *WSChatHandler) Handle(c *gin.Context) {
	tokenString := c.Param("token")
	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "недействительный токен", "data": nil})
		return
	}

	user, err := h.userService.GetProfile(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "не удалось получить данные пользователя", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket connection established, user: %s", user.Name)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("failed to read WebSocket message: %v", err)
			break
		}

		var inbound wsInbound
		if err := json.Unmarshal(raw, &inbound); err != nil {
			h.write(conn, wsOutbound{Type: "error", Error: "неверный формат сообщения", Timestamp: time.Now().UnixMilli()})
			continue
		}

		chat, err := h.chatService.SendMessage(c.Request.Context(), user.ID, inbound.ChatID, inbound.Text)
		if err != nil {
			log.Warnf("ws send failed for user %s: %v", user.ID, err)
			h.write(conn, wsOutbound{Type: "error", ChatID: inbound.ChatID, Error: "не удалось отправить сообщение", Timestamp: time.Now().UnixMilli()})
			continue
		}

		// Последнее сообщение беседы — структурированный ответ модели.
		reply := chat.Messages[len(chat.Messages)-1]
		h.write(conn, wsOutbound{
			Type:      "message",
			ChatID:    chat.ID,
			Message:   reply,
			Timestamp: time.Now().UnixMilli(),
		})
	}
}

func (h *WSChatHandler) write(conn *websocket.Conn, out wsOutbound) {
	data, err := json.Marshal(out)
	if err != nil {
		log.Errorf("failed to marshal ws message: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warnf("failed to write ws message: %v", err)
	}
}
