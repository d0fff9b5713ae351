package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
)

// markerVerseRepo помечает результаты, чтобы различать источники.
type markerVerseRepo struct {
	marker string
}

func (r *markerVerseRepo) SearchVerses(ctx context.Context, query string) ([]model.BibleVerse, error) {
	return []model.BibleVerse{{ID: 99, BookName: r.marker}}, nil
}

func (r *markerVerseRepo) CommentariesForVerses(ctx context.Context, verseIDs []int64) ([]model.BibleCommentary, error) {
	return []model.BibleCommentary{{ID: 999, Author: r.marker}}, nil
}

var _ repository.VerseRepository = (*markerVerseRepo)(nil)

// Источник поиска выбирается по конфигурации при каждом обращении.
func TestRetrievalBackendSwitch(t *testing.T) {
	configRepo := &stubConfigRepo{cfg: &model.AppConfig{UseMockDB: true}}
	fixture := &markerVerseRepo{marker: "fixture"}
	external := &markerVerseRepo{marker: "es"}
	svc := NewRetrievalService(fixture, external, configRepo)

	verses, err := svc.SearchVerses(context.Background(), "вопрос")
	require.NoError(t, err)
	assert.Equal(t, "fixture", verses[0].BookName)

	// администратор переключил источник, перезапуск не требуется
	configRepo.cfg.UseMockDB = false
	verses, err = svc.SearchVerses(context.Background(), "вопрос")
	require.NoError(t, err)
	assert.Equal(t, "es", verses[0].BookName)
}

// Без внешнего источника всегда используется встроенный набор.
func TestRetrievalFixtureOnly(t *testing.T) {
	configRepo := &stubConfigRepo{cfg: &model.AppConfig{UseMockDB: false}}
	fixture := &markerVerseRepo{marker: "fixture"}
	svc := NewRetrievalService(fixture, nil, configRepo)

	verses, err := svc.SearchVerses(context.Background(), "вопрос")
	require.NoError(t, err)
	assert.Equal(t, "fixture", verses[0].BookName)
}

// Пустой набор идентификаторов не обращается к источнику.
func TestRetrievalEmptyIDs(t *testing.T) {
	configRepo := &stubConfigRepo{cfg: &model.AppConfig{UseMockDB: true}}
	svc := NewRetrievalService(&markerVerseRepo{marker: "fixture"}, nil, configRepo)

	commentaries, err := svc.CommentariesForVerses(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, commentaries)
}
