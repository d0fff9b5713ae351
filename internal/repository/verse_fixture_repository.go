package repository

import (
	"context"
	"strings"

	"enoch-go/internal/model"
)

// fixtureVerses — встроенный набор данных, имитирующий содержимое настоящей
// базы Писания. Порядок элементов значим: результаты поиска возвращаются в
// порядке хранения.
var fixtureVerses = []model.BibleVerse{
	{
		ID:          1,
		Translation: "RST",
		BookID:      40,
		BookName:    "Мф.",
		Chapter:     5,
		Verse:       3,
		Text:        "Блаженны нищие духом, ибо их есть Царство Небесное.",
		AzbykaURL:   "https://azbyka.ru/biblia/?Mt.5:3",
		AzbykaURL2:  "https://azbyka.ru/biblia/?Mt.5:3&utfcs",
	},
	{
		ID:          2,
		Translation: "RST",
		BookID:      43,
		BookName:    "Ин.",
		Chapter:     1,
		Verse:       1,
		Text:        "В начале было Слово, и Слово было у Бога, и Слово было Бог.",
		AzbykaURL:   "https://azbyka.ru/biblia/?Jn.1:1",
	},
	{
		ID:          3,
		Translation: "RST",
		BookID:      40,
		BookName:    "Мф.",
		Chapter:     6,
		Verse:       6,
		Text:        "Ты же, когда молишься, войди в комнату твою и, затворив дверь твою, помолись Отцу твоему, Который втайне; и Отец твой, видящий тайное, воздаст тебе явно.",
		AzbykaURL:   "https://azbyka.ru/biblia/?Mt.6:6",
	},
}

var fixtureCommentaries = []model.BibleCommentary{
	{
		ID:          101,
		VerseID:     1,
		BookID:      40,
		BookName:    "Мф.",
		Chapter:     5,
		Verse:       3,
		Author:      "Иоанн Златоуст",
		Label:       "Беседы на Евангелие от Матфея",
		TextPlain:   "Что значит: нищие духом? Смиренные и сокрушенные сердцем. Духом Он назвал душу и расположение человека... Почему же не сказал Он: смиренные, а сказал: нищие? Потому что последнее выразительнее первого; нищими Он называет здесь тех, которые боятся и трепещут заповедей Божиих.",
		SourceTitle: "Беседы на Евангелие от Матфея",
		AzbykaURL:   "https://azbyka.ru/biblia/?Mt.5:3&c",
	},
	{
		ID:          102,
		VerseID:     1,
		BookID:      40,
		BookName:    "Мф.",
		Chapter:     5,
		Verse:       3,
		Author:      "Феофилакт Болгарский",
		Label:       "Толкование",
		TextPlain:   "Нищие духом суть те, которые смирились душой своей, ибо духом называет здесь душу. Или же нищие духом — это те, которые по своей воле, ради Бога, обнищали в мирских благах.",
		SourceTitle: "Толкование на Евангелие от Матфея",
		AzbykaURL:   "https://azbyka.ru/biblia/?Mt.5:3&c",
	},
	{
		ID:        103,
		VerseID:   3,
		BookID:    40,
		BookName:  "Мф.",
		Chapter:   6,
		Verse:     6,
		Author:    "Иоанн Кронштадтский",
		Label:     "Дневник",
		TextPlain: "Господь хочет, чтобы молитва наша была искренняя, сердечная, глубоко сосредоточенная, чуждая всякого лицемерия и тщеславия. \"Клеть\" — это сердце твое.",
		AzbykaURL: "https://azbyka.ru/biblia/?Mt.6:6&c",
	},
}

// stemPairs — жёстко заданные ассоциации «основа запроса → основа в тексте».
// Грубая замена полнотекстового/векторного поиска для встроенного набора.
var stemPairs = [][2]string{
	{"блажен", "блажен"},
	{"молит", "молиш"},
	{"начал", "начале"},
}

// fixtureVerseRepository — реализация VerseRepository поверх встроенного
// набора данных. Только чтение, побочных эффектов нет.
type fixtureVerseRepository struct{}

// NewFixtureVerseRepository создаёт репозиторий встроенного набора стихов.
func NewFixtureVerseRepository() VerseRepository {
	return &fixtureVerseRepository{}
}

// SearchVerses выбирает стихи, текст которых содержит нормализованный запрос
// как подстроку либо подходит под одну из ассоциаций основ.
func (r *fixtureVerseRepository) SearchVerses(ctx context.Context, query string) ([]model.BibleVerse, error) {
	normalized := NormalizeQuery(query)
	if strings.TrimSpace(normalized) == "" {
		return []model.BibleVerse{}, nil
	}

	results := make([]model.BibleVerse, 0, len(fixtureVerses))
	for _, v := range fixtureVerses {
		text := strings.ToLower(v.Text)
		if strings.Contains(text, normalized) {
			results = append(results, v)
			continue
		}
		for _, pair := range stemPairs {
			if strings.Contains(normalized, pair[0]) && strings.Contains(text, pair[1]) {
				results = append(results, v)
				break
			}
		}
	}
	return results, nil
}

// CommentariesForVerses фильтрует толкования по вхождению verse_id в набор.
func (r *fixtureVerseRepository) CommentariesForVerses(ctx context.Context, verseIDs []int64) ([]model.BibleCommentary, error) {
	wanted := make(map[int64]struct{}, len(verseIDs))
	for _, id := range verseIDs {
		wanted[id] = struct{}{}
	}
	results := make([]model.BibleCommentary, 0, len(fixtureCommentaries))
	for _, c := range fixtureCommentaries {
		if _, ok := wanted[c.VerseID]; ok {
			results = append(results, c)
		}
	}
	return results, nil
}

// FixtureVerses возвращает копию встроенного набора стихов. Используется
// конвейером индексации для наполнения Elasticsearch.
func FixtureVerses() []model.BibleVerse {
	out := make([]model.BibleVerse, len(fixtureVerses))
	copy(out, fixtureVerses)
	return out
}

// FixtureCommentaries возвращает копию встроенного набора толкований.
func FixtureCommentaries() []model.BibleCommentary {
	out := make([]model.BibleCommentary, len(fixtureCommentaries))
	copy(out, fixtureCommentaries)
	return out
}
