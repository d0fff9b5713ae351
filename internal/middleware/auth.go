// Package middleware содержит промежуточные обработчики HTTP-запросов.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/service"
	"enoch-go/pkg/token"
)

// AuthMiddleware создаёт middleware JWT-аутентификации: извлекает токен из
// заголовка, проверяет его и кладёт полный объект пользователя в контекст Gin.
func AuthMiddleware(jwtManager *token.JWTManager, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "запрос без заголовка авторизации"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "неверный формат заголовка авторизации"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "недействительный или просроченный токен"})
			return
		}

		// Пользователь загружается из базы: токен мог пережить удаление
		// учётной записи.
		user, err := userService.GetProfile(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "пользователь не найден"})
			return
		}

		c.Set("user", user)
		c.Set("claims", claims)
		c.Next()
	}
}
