package repository

import (
	"enoch-go/internal/model"

	"gorm.io/gorm"
)

// ModeRepository определяет операции хранения режимов общения.
type ModeRepository interface {
	Create(mode *model.ChatMode) error
	Update(mode *model.ChatMode) error
	Delete(id string) error
	FindByID(id string) (*model.ChatMode, error)
	// FindAll возвращает режимы в порядке создания: первый по времени
	// режим служит запасным при ссылке на удалённый.
	FindAll() ([]model.ChatMode, error)
	Count() (int64, error)
}

// modeRepository — GORM-реализация интерфейса ModeRepository.
type modeRepository struct {
	db *gorm.DB
}

// NewModeRepository создаёт новый экземпляр ModeRepository.
func NewModeRepository(db *gorm.DB) ModeRepository {
	return &modeRepository{db: db}
}

// Create создаёт новый режим.
func (r *modeRepository) Create(mode *model.ChatMode) error {
	return r.db.Create(mode).Error
}

// Update обновляет существующий режим.
func (r *modeRepository) Update(mode *model.ChatMode) error {
	return r.db.Save(mode).Error
}

// Delete удаляет режим по идентификатору.
func (r *modeRepository) Delete(id string) error {
	return r.db.Delete(&model.ChatMode{}, "id = ?", id).Error
}

// FindByID ищет режим по идентификатору.
func (r *modeRepository) FindByID(id string) (*model.ChatMode, error) {
	var mode model.ChatMode
	err := r.db.Where("id = ?", id).First(&mode).Error
	if err != nil {
		return nil, err
	}
	return &mode, nil
}

// FindAll возвращает все режимы в порядке создания.
func (r *modeRepository) FindAll() ([]model.ChatMode, error) {
	var modes []model.ChatMode
	err := r.db.Order("created_at").Find(&modes).Error
	return modes, err
}

// Count возвращает число режимов.
func (r *modeRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&model.ChatMode{}).Count(&total).Error
	return total, err
}
