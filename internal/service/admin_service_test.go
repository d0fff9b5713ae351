package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enoch-go/internal/model"
)

func newAdminFixture() (AdminService, *stubConfigRepo) {
	configRepo := &stubConfigRepo{cfg: &model.AppConfig{
		ID:             model.AppConfigID,
		AIAPIKey:       "old-key",
		AIModel:        "old-model",
		UseMockDB:      true,
		CurrentThemeID: "sky-soft",
	}}
	return NewAdminService(configRepo, NewThemeService()), configRepo
}

// Частичное обновление: незатронутые поля сохраняют прежние значения.
func TestUpdateConfigPartial(t *testing.T) {
	svc, repo := newAdminFixture()

	newKey := "  new-key  "
	useReal := false
	cfg, err := svc.UpdateConfig(ConfigUpdate{AIAPIKey: &newKey, UseMockDB: &useReal})
	require.NoError(t, err)

	assert.Equal(t, "new-key", cfg.AIAPIKey)
	assert.False(t, cfg.UseMockDB)
	assert.Equal(t, "old-model", cfg.AIModel)
	assert.Equal(t, "sky-soft", cfg.CurrentThemeID)
	assert.Equal(t, cfg, repo.cfg)
}

// Тема вне каталога отклоняется, конфигурация не сохраняется.
func TestUpdateConfigUnknownTheme(t *testing.T) {
	svc, repo := newAdminFixture()

	bad := "no-such-theme"
	_, err := svc.UpdateConfig(ConfigUpdate{CurrentThemeID: &bad})
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Equal(t, "sky-soft", repo.cfg.CurrentThemeID)
}

func TestUpdateConfigTheme(t *testing.T) {
	svc, _ := newAdminFixture()

	theme := "wine-pill"
	cfg, err := svc.UpdateConfig(ConfigUpdate{CurrentThemeID: &theme})
	require.NoError(t, err)
	assert.Equal(t, "wine-pill", cfg.CurrentThemeID)
}
