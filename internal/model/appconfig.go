package model

import "time"

// AppConfigID — идентификатор единственной строки конфигурации.
const AppConfigID uint = 1

// AppConfig соответствует таблице 'app_config'. Синглтон на инсталляцию:
// ключ и модель провайдера читаются из него при каждом обращении к
// генерации. Параметры внешней базы стихов используются только при
// выключенном UseMockDB.
type AppConfig struct {
	ID uint `gorm:"primaryKey" json:"-"`

	// Настройки генеративного провайдера.
	AIAPIKey string `gorm:"type:varchar(255)" json:"aiApiKey"`
	AIModel  string `gorm:"type:varchar(100)" json:"aiModel"`

	// Параметры внешней базы стихов (Elasticsearch).
	DBHost string `gorm:"type:varchar(255)" json:"dbHost"`
	DBPort string `gorm:"type:varchar(10)" json:"dbPort"`
	DBUser string `gorm:"type:varchar(100)" json:"dbUser"`
	DBPass string `gorm:"type:varchar(255)" json:"dbPass"`
	DBName string `gorm:"type:varchar(100)" json:"dbName"`
	// UseMockDB — при true поиск выполняется по встроенному набору стихов.
	UseMockDB bool `gorm:"not null;default:true" json:"useMockDb"`

	// Активная визуальная тема.
	CurrentThemeID string `gorm:"type:varchar(64)" json:"currentThemeId"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName задаёт имя таблицы для этой модели.
func (AppConfig) TableName() string {
	return "app_config"
}
