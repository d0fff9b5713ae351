package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
)

// fakeModeRepo — режимы в памяти в порядке создания.
type fakeModeRepo struct {
	modes []model.ChatMode
}

func (r *fakeModeRepo) Create(mode *model.ChatMode) error {
	r.modes = append(r.modes, *mode)
	return nil
}

func (r *fakeModeRepo) Update(mode *model.ChatMode) error {
	for i := range r.modes {
		if r.modes[i].ID == mode.ID {
			r.modes[i] = *mode
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeModeRepo) Delete(id string) error {
	for i := range r.modes {
		if r.modes[i].ID == id {
			r.modes = append(r.modes[:i], r.modes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeModeRepo) FindByID(id string) (*model.ChatMode, error) {
	for i := range r.modes {
		if r.modes[i].ID == id {
			m := r.modes[i]
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeModeRepo) FindAll() ([]model.ChatMode, error) {
	return r.modes, nil
}

func (r *fakeModeRepo) Count() (int64, error) {
	return int64(len(r.modes)), nil
}

var _ repository.ModeRepository = (*fakeModeRepo)(nil)

// Пустая таблица засевается стандартными режимами, непустая не трогается.
func TestEnsureDefaults(t *testing.T) {
	repo := &fakeModeRepo{}
	svc := NewModeService(repo)

	require.NoError(t, svc.EnsureDefaults())
	assert.Len(t, repo.modes, 3)
	assert.Equal(t, "Пастырь", repo.modes[0].Name)

	// повторный вызов не создаёт дубликатов
	require.NoError(t, svc.EnsureDefaults())
	assert.Len(t, repo.modes, 3)
}

// Ссылка на удалённый режим разрешается в первый по времени создания.
func TestResolveFallback(t *testing.T) {
	repo := &fakeModeRepo{modes: []model.ChatMode{
		{ID: "m1", Name: "Пастырь"},
		{ID: "m2", Name: "Катехизатор"},
	}}
	svc := NewModeService(repo)

	mode, err := svc.Resolve("m2")
	require.NoError(t, err)
	assert.Equal(t, "m2", mode.ID)

	mode, err = svc.Resolve("deleted")
	require.NoError(t, err)
	assert.Equal(t, "m1", mode.ID)

	mode, err = svc.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "m1", mode.ID)
}

func TestResolveNoModes(t *testing.T) {
	svc := NewModeService(&fakeModeRepo{})
	_, err := svc.Resolve("any")
	assert.ErrorIs(t, err, ErrModeNotFound)
}

// Последний режим удалить нельзя: беседам нужен запасной.
func TestDeleteLastMode(t *testing.T) {
	repo := &fakeModeRepo{modes: []model.ChatMode{
		{ID: "m1"},
		{ID: "m2"},
	}}
	svc := NewModeService(repo)

	require.NoError(t, svc.Delete("m2"))
	assert.Len(t, repo.modes, 1)

	err := svc.Delete("m1")
	assert.ErrorIs(t, err, ErrLastMode)
}

// Create выдаёт идентификатор, если он не задан.
func TestCreateModeAssignsID(t *testing.T) {
	repo := &fakeModeRepo{}
	svc := NewModeService(repo)

	mode := &model.ChatMode{Name: "Миссионер", SystemPrompt: "Отвечай просто."}
	require.NoError(t, svc.Create(mode))
	assert.NotEmpty(t, mode.ID)
}
