package repository

import (
	"errors"

	"enoch-go/internal/config"
	"enoch-go/internal/model"

	"gorm.io/gorm"
)

// ConfigRepository определяет операции над единственной строкой AppConfig.
type ConfigRepository interface {
	// Get возвращает конфигурацию, дополняя отсутствующие поля значениями
	// по умолчанию. Отсутствие строки — не ошибка.
	Get() (*model.AppConfig, error)
	Save(cfg *model.AppConfig) error
}

// configRepository — GORM-реализация интерфейса ConfigRepository.
type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository создаёт новый экземпляр ConfigRepository.
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

// defaultAppConfig строит конфигурацию по умолчанию из файла настроек.
func defaultAppConfig() *model.AppConfig {
	return &model.AppConfig{
		ID:             model.AppConfigID,
		AIAPIKey:       config.Conf.AI.APIKey,
		AIModel:        config.Conf.AI.Model,
		UseMockDB:      true,
		CurrentThemeID: "sky-soft",
	}
}

// Get читает строку конфигурации и сливает её со значениями по умолчанию:
// новые поля, появившиеся после записи строки, получают дефолты при чтении.
func (r *configRepository) Get() (*model.AppConfig, error) {
	var cfg model.AppConfig
	err := r.db.First(&cfg, model.AppConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultAppConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	defaults := defaultAppConfig()
	if cfg.AIAPIKey == "" {
		cfg.AIAPIKey = defaults.AIAPIKey
	}
	if cfg.AIModel == "" {
		cfg.AIModel = defaults.AIModel
	}
	if cfg.CurrentThemeID == "" {
		cfg.CurrentThemeID = defaults.CurrentThemeID
	}
	return &cfg, nil
}

// Save сохраняет конфигурацию, принудительно в строку-синглтон.
func (r *configRepository) Save(cfg *model.AppConfig) error {
	cfg.ID = model.AppConfigID
	return r.db.Save(cfg).Error
}
