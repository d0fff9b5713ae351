package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/log"
	"enoch-go/pkg/token"
)

// adminLoginName — зарезервированное имя: административный флаг не хранимое
// полномочие, а производное имени, пересчитываемое при каждом входе.
const adminLoginName = "admin"

// ErrEmptyName — попытка входа с пустым именем.
var ErrEmptyName = errors.New("user name is empty")

// ErrUserNotFound возвращается при обращении к несуществующему пользователю.
var ErrUserNotFound = errors.New("user not found")

// LoginResult — результат входа: пользователь и пара токенов.
type LoginResult struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// UserService управляет пользователями и входом по имени.
type UserService interface {
	// LoginOrRegister находит пользователя по имени без учёта регистра,
	// создаёт нового при промахе и выдаёт токены.
	LoginOrRegister(name string) (*LoginResult, error)
	// RefreshTokens выдаёт новую пару токенов по refresh-токену.
	RefreshTokens(refreshToken string) (*LoginResult, error)
	GetProfile(userID string) (*model.User, error)
	ListUsers() ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	jwt      *token.JWTManager
}

// NewUserService создаёт сервис пользователей.
func NewUserService(userRepo repository.UserRepository, jwt *token.JWTManager) UserService {
	return &userService{userRepo: userRepo, jwt: jwt}
}

func (s *userService) LoginOrRegister(name string) (*LoginResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	isAdmin := strings.ToLower(name) == adminLoginName

	user, err := s.userRepo.FindByName(name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			ID:      uuid.New().String(),
			Name:    name,
			IsAdmin: isAdmin,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
		log.Infof("registered new user %s", user.ID)
	case err != nil:
		return nil, err
	default:
		// Флаг администратора пересчитывается при каждом входе.
		if user.IsAdmin != isAdmin {
			user.IsAdmin = isAdmin
			if err := s.userRepo.Update(user); err != nil {
				return nil, err
			}
		}
	}

	return s.issueTokens(user)
}

func (s *userService) RefreshTokens(refreshToken string) (*LoginResult, error) {
	claims, err := s.jwt.VerifyToken(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *userService) issueTokens(user *model.User) (*LoginResult, error) {
	access, err := s.jwt.GenerateToken(user.ID, user.Name, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Name, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *userService) GetProfile(userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *userService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}
