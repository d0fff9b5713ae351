package service

import (
	"errors"
	"strings"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/log"
)

// ErrUnknownTheme — попытка активировать тему вне каталога.
var ErrUnknownTheme = errors.New("unknown theme id")

// ConfigUpdate — изменяемые администратором поля конфигурации.
// Указатели отличают «не трогать» от «установить пустое значение».
type ConfigUpdate struct {
	AIAPIKey       *string `json:"aiApiKey"`
	AIModel        *string `json:"aiModel"`
	DBHost         *string `json:"dbHost"`
	DBPort         *string `json:"dbPort"`
	DBUser         *string `json:"dbUser"`
	DBPass         *string `json:"dbPass"`
	DBName         *string `json:"dbName"`
	UseMockDB      *bool   `json:"useMockDb"`
	CurrentThemeID *string `json:"currentThemeId"`
}

// AdminService — операции административной панели.
type AdminService interface {
	GetConfig() (*model.AppConfig, error)
	UpdateConfig(update ConfigUpdate) (*model.AppConfig, error)
}

type adminService struct {
	configRepo repository.ConfigRepository
	themes     ThemeService
}

// NewAdminService создаёт сервис администрирования.
func NewAdminService(configRepo repository.ConfigRepository, themes ThemeService) AdminService {
	return &adminService{configRepo: configRepo, themes: themes}
}

func (s *adminService) GetConfig() (*model.AppConfig, error) {
	return s.configRepo.Get()
}

func (s *adminService) UpdateConfig(update ConfigUpdate) (*model.AppConfig, error) {
	cfg, err := s.configRepo.Get()
	if err != nil {
		return nil, err
	}

	if update.AIAPIKey != nil {
		cfg.AIAPIKey = strings.TrimSpace(*update.AIAPIKey)
	}
	if update.AIModel != nil {
		cfg.AIModel = strings.TrimSpace(*update.AIModel)
	}
	if update.DBHost != nil {
		cfg.DBHost = *update.DBHost
	}
	if update.DBPort != nil {
		cfg.DBPort = *update.DBPort
	}
	if update.DBUser != nil {
		cfg.DBUser = *update.DBUser
	}
	if update.DBPass != nil {
		cfg.DBPass = *update.DBPass
	}
	if update.DBName != nil {
		cfg.DBName = *update.DBName
	}
	if update.UseMockDB != nil {
		cfg.UseMockDB = *update.UseMockDB
	}
	if update.CurrentThemeID != nil {
		if _, ok := s.themes.Find(*update.CurrentThemeID); !ok {
			return nil, ErrUnknownTheme
		}
		cfg.CurrentThemeID = *update.CurrentThemeID
	}

	if err := s.configRepo.Save(cfg); err != nil {
		return nil, err
	}
	log.Infow("app config updated", "useMockDb", cfg.UseMockDB, "theme", cfg.CurrentThemeID)
	return cfg, nil
}
