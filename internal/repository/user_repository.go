// Package repository определяет интерфейсы и реализации доступа к данным.
package repository

import (
	"enoch-go/internal/model"

	"gorm.io/gorm"
)

// UserRepository определяет операции хранения пользователей.
type UserRepository interface {
	Create(user *model.User) error
	// FindByName ищет пользователя по имени без учёта регистра.
	FindByName(name string) (*model.User, error)
	FindByID(id string) (*model.User, error)
	Update(user *model.User) error
	FindAll() ([]model.User, error)
}

// userRepository — GORM-реализация интерфейса UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создаёт новый экземпляр UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create создаёт новую запись пользователя.
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// FindByName ищет пользователя по имени без учёта регистра.
func (r *userRepository) FindByName(name string) (*model.User, error) {
	var user model.User
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID ищет пользователя по идентификатору.
func (r *userRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update обновляет существующую запись пользователя.
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// FindAll возвращает всех пользователей.
func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at").Find(&users).Error
	return users, err
}
