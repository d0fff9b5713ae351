package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/service"
	"enoch-go/pkg/log"
)

// SpeechHandler обрабатывает запросы озвучивания текста.
type SpeechHandler struct {
	speechService service.SpeechService
}

// NewSpeechHandler создаёт новый экземпляр SpeechHandler.
func NewSpeechHandler(speechService service.SpeechService) *SpeechHandler {
	return &SpeechHandler{speechService: speechService}
}

// SpeechRequest — тело запроса синтеза речи.
type SpeechRequest struct {
	Text string `json:"text" binding:"required"`
	// Voice переопределяет голос режима; пустое значение — голос режима
	// либо голос по умолчанию.
	Voice  string `json:"voice"`
	ModeID string `json:"modeId"`
}

// Synthesize возвращает WAV-аудио для текста. Недоступность озвучивания —
// штатный ответ 200 с уведомлением, а не ошибка: клиент отключает кнопку.
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "текст не может быть пустым"})
		return
	}

	wav, err := h.speechService.Synthesize(c.Request.Context(), req.Text, req.Voice, req.ModeID)
	if err != nil {
		if errors.Is(err, service.ErrSpeechUnavailable) {
			c.JSON(http.StatusOK, gin.H{
				"code":    http.StatusOK,
				"message": "success",
				"data": gin.H{
					"available": false,
					"notice":    "Озвучивание сейчас недоступно.",
				},
			})
			return
		}
		log.Errorf("Synthesize: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
		return
	}

	c.Data(http.StatusOK, "audio/wav", wav)
}
