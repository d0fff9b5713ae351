package model

import "time"

// User соответствует таблице 'users'.
// Пароля нет: вход выполняется только по имени, а флаг администратора
// пересчитывается при каждом входе по зарезервированному имени.
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName задаёт имя таблицы для этой модели.
func (User) TableName() string {
	return "users"
}
