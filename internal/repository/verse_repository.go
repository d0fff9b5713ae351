package repository

import (
	"context"
	"regexp"
	"strings"

	"enoch-go/internal/model"
)

// VerseRepository определяет контракт поиска по корпусу Писания.
// Контрактом является именно интерфейс: встроенная реализация использует
// намеренно грубую эвристику подстрок, Elasticsearch-реализация — полноценный
// полнотекстовый поиск. Потребители не должны полагаться на конкретный
// алгоритм сопоставления.
type VerseRepository interface {
	// SearchVerses возвращает стихи, подходящие под запрос, в порядке
	// хранения. Без ранжирования, без дедупликации, без пагинации.
	SearchVerses(ctx context.Context, query string) ([]model.BibleVerse, error)
	// CommentariesForVerses возвращает толкования, чьи verse_id входят в
	// переданный набор, с сохранением порядка хранения.
	CommentariesForVerses(ctx context.Context, verseIDs []int64) ([]model.BibleCommentary, error)
}

var punctuation = regexp.MustCompile(`[.,/#!$%^&*;:{}=\-_` + "`" + `~()?«»"']`)

// NormalizeQuery приводит запрос к нижнему регистру и убирает пунктуацию.
func NormalizeQuery(query string) string {
	return punctuation.ReplaceAllString(strings.ToLower(query), "")
}
