package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/model"
)

// AdminAuthMiddleware проверяет административные права пользователя.
// Должен стоять в цепочке после AuthMiddleware.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить данные пользователя"})
			return
		}

		currentUser, ok := user.(*model.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "неверный тип данных пользователя"})
			return
		}

		if !currentUser.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "требуются права администратора"})
			return
		}
		c.Next()
	}
}
