package model

import "time"

// ChatMode соответствует таблице 'chat_modes'.
// Именованный пресет: фрагмент системной инструкции, описание, иконка и
// необязательный голос для озвучивания. Создаётся и изменяется только
// администратором; беседы ссылаются на режим по идентификатору.
type ChatMode struct {
	ID           string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	SystemPrompt string    `gorm:"type:text" json:"systemPrompt"`
	Icon         string    `gorm:"type:varchar(50)" json:"icon"`
	VoiceName    string    `gorm:"type:varchar(50)" json:"voiceName,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName задаёт имя таблицы для этой модели.
func (ChatMode) TableName() string {
	return "chat_modes"
}
