// Package handler содержит контроллеры HTTP-запросов.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/model"
	"enoch-go/internal/service"
	"enoch-go/pkg/log"
)

// AuthHandler обрабатывает вход по имени и обновление токенов.
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// LoginRequest — тело запроса входа. Пароля нет: вход свободный, по имени.
type LoginRequest struct {
	Name string `json:"name" binding:"required"`
}

// RefreshTokenRequest — тело запроса обновления токена.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Login обрабатывает вход: находит пользователя по имени или создаёт нового.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: invalid request payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "имя не может быть пустым"})
		return
	}

	result, err := h.userService.LoginOrRegister(req.Name)
	if err != nil {
		log.Errorf("Login: failed for name %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось выполнить вход"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    result,
	})
}

// RefreshToken обрабатывает обновление пары токенов.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RefreshToken: invalid request payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken не может быть пустым"})
		return
	}

	result, err := h.userService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warnf("RefreshToken: failed to refresh: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "недействительный refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"token":        result.AccessToken,
			"refreshToken": result.RefreshToken,
		},
	})
}

// Profile возвращает профиль текущего пользователя из контекста.
func (h *AuthHandler) Profile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить данные пользователя"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    user,
	})
}

// currentUser достаёт пользователя, положенного в контекст AuthMiddleware.
func currentUser(c *gin.Context) *model.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
