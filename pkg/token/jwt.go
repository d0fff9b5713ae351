// Package token предоставляет функции генерации и проверки JSON Web Tokens (JWT).
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager отвечает за выпуск и проверку JWT.
type JWTManager struct {
	secretKey       []byte        // ключ подписи и проверки токенов
	accessTokenDur  time.Duration // срок жизни access-токена
	refreshTokenDur time.Duration // срок жизни refresh-токена
}

// CustomClaims описывает пользовательские данные, которые мы храним в JWT.
// Встраивает jwt.RegisteredClaims для стандартных полей (срок действия и т.д.).
type CustomClaims struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// NewJWTManager создаёт новый экземпляр JWTManager.
// secret: строка-ключ для подписи.
// accessTokenExpireHours: срок жизни access-токена в часах.
// refreshTokenExpireDays: срок жизни refresh-токена в днях.
func NewJWTManager(secret string, accessTokenExpireHours, refreshTokenExpireDays int) *JWTManager {
	return &JWTManager{
		secretKey:       []byte(secret),
		accessTokenDur:  time.Hour * time.Duration(accessTokenExpireHours),
		refreshTokenDur: time.Duration(refreshTokenExpireDays) * 24 * time.Hour,
	}
}

// GenerateToken выпускает новый access-токен для указанного пользователя.
func (m *JWTManager) GenerateToken(userID, name string, isAdmin bool) (string, error) {
	claims := CustomClaims{
		UserID:  userID,
		Name:    name,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessTokenDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// GenerateRefreshToken выпускает refresh-токен. Работает так же, как
// GenerateToken, но с более длительным сроком действия.
func (m *JWTManager) GenerateRefreshToken(userID, name string, isAdmin bool) (string, error) {
	claims := CustomClaims{
		UserID:  userID,
		Name:    name,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.refreshTokenDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken проверяет строку токена.
// При успехе возвращает CustomClaims, при ошибке (неверная подпись,
// истёкший срок) — ошибку.
func (m *JWTManager) VerifyToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Метод подписи обязан быть HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
