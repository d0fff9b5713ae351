package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/service"
	"enoch-go/pkg/log"
)

// AdminHandler обрабатывает запросы административной панели.
type AdminHandler struct {
	adminService service.AdminService
	userService  service.UserService
}

// NewAdminHandler создаёт новый экземпляр AdminHandler.
func NewAdminHandler(adminService service.AdminService, userService service.UserService) *AdminHandler {
	return &AdminHandler{adminService: adminService, userService: userService}
}

// GetConfig возвращает текущую конфигурацию приложения.
func (h *AdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.adminService.GetConfig()
	if err != nil {
		log.Errorf("GetConfig: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить конфигурацию"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": cfg})
}

// UpdateConfig изменяет конфигурацию приложения.
func (h *AdminHandler) UpdateConfig(c *gin.Context) {
	var update service.ConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неверное тело запроса"})
		return
	}
	cfg, err := h.adminService.UpdateConfig(update)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTheme) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "тема не найдена в каталоге"})
			return
		}
		log.Errorf("UpdateConfig: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сохранить конфигурацию"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": cfg})
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		log.Errorf("ListUsers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить список пользователей"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": users})
}
