package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/token"
)

// fakeUserRepo — пользователи в памяти с семантикой GORM при промахе.
type fakeUserRepo struct {
	users []model.User
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) FindByName(name string) (*model.User, error) {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Name, name) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *model.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	return r.users, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newUserFixture() (UserService, *fakeUserRepo) {
	repo := &fakeUserRepo{}
	jwt := token.NewJWTManager("test-secret", 1, 1)
	return NewUserService(repo, jwt), repo
}

// Вход с новым именем создаёт пользователя и выдаёт пару токенов.
func TestLoginOrRegisterCreatesUser(t *testing.T) {
	svc, repo := newUserFixture()

	result, err := svc.LoginOrRegister("Мария")
	require.NoError(t, err)

	assert.Equal(t, "Мария", result.User.Name)
	assert.False(t, result.User.IsAdmin)
	assert.NotEmpty(t, result.User.ID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Len(t, repo.users, 1)
}

// Повторный вход тем же именем в другом регистре не создаёт дубликата.
func TestLoginOrRegisterCaseInsensitive(t *testing.T) {
	svc, repo := newUserFixture()

	first, err := svc.LoginOrRegister("Мария")
	require.NoError(t, err)
	second, err := svc.LoginOrRegister("мария")
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, repo.users, 1)
}

// Административный флаг — производное имени, пересчитываемое при каждом
// входе, а не хранимое полномочие.
func TestLoginOrRegisterAdminDerivation(t *testing.T) {
	svc, repo := newUserFixture()

	result, err := svc.LoginOrRegister("Admin")
	require.NoError(t, err)
	assert.True(t, result.User.IsAdmin)

	// кто-то вручную снял флаг в базе
	repo.users[0].IsAdmin = false
	result, err = svc.LoginOrRegister("ADMIN")
	require.NoError(t, err)
	assert.True(t, result.User.IsAdmin, "флаг восстанавливается при входе")
	assert.Len(t, repo.users, 1)
}

func TestLoginOrRegisterEmptyName(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.LoginOrRegister("   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

// Токены входа содержат корректные утверждения и принимаются менеджером.
func TestRefreshTokens(t *testing.T) {
	svc, _ := newUserFixture()

	login, err := svc.LoginOrRegister("Пётр")
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshTokens("not-a-token")
	assert.Error(t, err)
}
