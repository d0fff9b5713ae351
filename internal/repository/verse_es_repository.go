package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"enoch-go/internal/model"

	"github.com/elastic/go-elasticsearch/v8"
)

// esVerseRepository — реализация VerseRepository поверх Elasticsearch.
// Используется при выключенном режиме встроенного набора (UseMockDB=false).
type esVerseRepository struct {
	esClient        *elasticsearch.Client
	verseIndex      string
	commentaryIndex string
}

// NewESVerseRepository создаёт Elasticsearch-реализацию VerseRepository.
func NewESVerseRepository(esClient *elasticsearch.Client, verseIndex, commentaryIndex string) VerseRepository {
	return &esVerseRepository{
		esClient:        esClient,
		verseIndex:      verseIndex,
		commentaryIndex: commentaryIndex,
	}
}

// SearchVerses выполняет match-запрос по тексту стихов.
func (r *esVerseRepository) SearchVerses(ctx context.Context, query string) ([]model.BibleVerse, error) {
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"text": NormalizeQuery(query),
			},
		},
		"sort": []map[string]interface{}{
			{"id": map[string]interface{}{"order": "asc"}},
		},
		"size": 20,
	}

	var verses []model.BibleVerse
	if err := r.search(ctx, r.verseIndex, esQuery, func(source json.RawMessage) error {
		var v model.BibleVerse
		if err := json.Unmarshal(source, &v); err != nil {
			return err
		}
		verses = append(verses, v)
		return nil
	}); err != nil {
		return nil, err
	}
	return verses, nil
}

// CommentariesForVerses выполняет terms-запрос по полю verse_id.
func (r *esVerseRepository) CommentariesForVerses(ctx context.Context, verseIDs []int64) ([]model.BibleCommentary, error) {
	if len(verseIDs) == 0 {
		return []model.BibleCommentary{}, nil
	}
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"terms": map[string]interface{}{
				"verse_id": verseIDs,
			},
		},
		"sort": []map[string]interface{}{
			{"id": map[string]interface{}{"order": "asc"}},
		},
		"size": 100,
	}

	var commentaries []model.BibleCommentary
	if err := r.search(ctx, r.commentaryIndex, esQuery, func(source json.RawMessage) error {
		var c model.BibleCommentary
		if err := json.Unmarshal(source, &c); err != nil {
			return err
		}
		commentaries = append(commentaries, c)
		return nil
	}); err != nil {
		return nil, err
	}
	return commentaries, nil
}

// search выполняет запрос к индексу и передаёт каждый найденный _source
// в обработчик.
func (r *esVerseRepository) search(ctx context.Context, index string, esQuery map[string]interface{}, each func(json.RawMessage) error) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(index),
		r.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch returned an error: %s", string(bodyBytes))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode es response: %w", err)
	}
	for _, hit := range parsed.Hits.Hits {
		if err := each(hit.Source); err != nil {
			return err
		}
	}
	return nil
}
