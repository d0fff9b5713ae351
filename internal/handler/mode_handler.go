package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/model"
	"enoch-go/internal/service"
	"enoch-go/pkg/log"
)

// ModeHandler обрабатывает запросы к режимам беседы. Чтение доступно всем
// аутентифицированным пользователям, изменение — только администратору.
type ModeHandler struct {
	modeService service.ModeService
}

// NewModeHandler создаёт новый экземпляр ModeHandler.
func NewModeHandler(modeService service.ModeService) *ModeHandler {
	return &ModeHandler{modeService: modeService}
}

// ModeRequest — тело запроса создания или изменения режима.
type ModeRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	SystemPrompt string `json:"systemPrompt" binding:"required"`
	Icon         string `json:"icon"`
	VoiceName    string `json:"voiceName"`
}

// List возвращает все режимы в порядке создания.
func (h *ModeHandler) List(c *gin.Context) {
	modes, err := h.modeService.List()
	if err != nil {
		log.Errorf("ListModes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить список режимов"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": modes})
}

// Create создаёт новый режим беседы.
func (h *ModeHandler) Create(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name и systemPrompt обязательны"})
		return
	}
	mode := &model.ChatMode{
		Name:         req.Name,
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		Icon:         req.Icon,
		VoiceName:    req.VoiceName,
	}
	if err := h.modeService.Create(mode); err != nil {
		log.Errorf("CreateMode: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось создать режим"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": mode})
}

// Update изменяет существующий режим.
func (h *ModeHandler) Update(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name и systemPrompt обязательны"})
		return
	}
	mode := &model.ChatMode{
		ID:           c.Param("id"),
		Name:         req.Name,
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		Icon:         req.Icon,
		VoiceName:    req.VoiceName,
	}
	if err := h.modeService.Update(mode); err != nil {
		if errors.Is(err, service.ErrModeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "режим не найден"})
			return
		}
		log.Errorf("UpdateMode: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось изменить режим"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": mode})
}

// Delete удаляет режим; последний оставшийся режим удалить нельзя.
func (h *ModeHandler) Delete(c *gin.Context) {
	if err := h.modeService.Delete(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrLastMode) {
			c.JSON(http.StatusConflict, gin.H{"error": "нельзя удалить последний режим"})
			return
		}
		log.Errorf("DeleteMode: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось удалить режим"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}
