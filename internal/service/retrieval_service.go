package service

import (
	"context"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/log"
)

// RetrievalService подбирает стихи и толкования, релевантные вопросу
// пользователя. Конкретный источник (локальный набор или Elasticsearch)
// выбирается по конфигурации при каждом обращении.
type RetrievalService interface {
	SearchVerses(ctx context.Context, query string) ([]model.BibleVerse, error)
	CommentariesForVerses(ctx context.Context, verseIDs []int64) ([]model.BibleCommentary, error)
}

type retrievalService struct {
	fixtureRepo repository.VerseRepository
	esRepo      repository.VerseRepository
	configRepo  repository.ConfigRepository
}

// NewRetrievalService создаёт сервис поиска. esRepo допускается nil —
// тогда используется только локальный набор стихов.
func NewRetrievalService(fixtureRepo repository.VerseRepository, esRepo repository.VerseRepository, configRepo repository.ConfigRepository) RetrievalService {
	return &retrievalService{
		fixtureRepo: fixtureRepo,
		esRepo:      esRepo,
		configRepo:  configRepo,
	}
}

// backend возвращает актуальный репозиторий стихов согласно конфигурации.
func (s *retrievalService) backend() repository.VerseRepository {
	if s.esRepo == nil {
		return s.fixtureRepo
	}
	cfg, err := s.configRepo.Get()
	if err != nil {
		log.Warnf("retrieval: failed to load app config, falling back to fixture set: %v", err)
		return s.fixtureRepo
	}
	if cfg.UseMockDB {
		return s.fixtureRepo
	}
	return s.esRepo
}

func (s *retrievalService) SearchVerses(ctx context.Context, query string) ([]model.BibleVerse, error) {
	return s.backend().SearchVerses(ctx, query)
}

func (s *retrievalService) CommentariesForVerses(ctx context.Context, verseIDs []int64) ([]model.BibleCommentary, error) {
	if len(verseIDs) == 0 {
		return nil, nil
	}
	return s.backend().CommentariesForVerses(ctx, verseIDs)
}
