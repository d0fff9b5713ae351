// Package es предоставляет клиент для работы с Elasticsearch.
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"enoch-go/internal/config"
	"enoch-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES инициализирует клиент Elasticsearch и создаёт индексы корпуса.
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client

	if err := createIndexIfNotExists(esCfg.VerseIndex, verseMapping); err != nil {
		return err
	}
	return createIndexIfNotExists(esCfg.CommentaryIndex, commentaryMapping)
}

// Маппинг индекса стихов: русский анализатор для полнотекстового поиска.
const verseMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"translation": { "type": "keyword" },
			"book_id": { "type": "integer" },
			"book_name": { "type": "keyword" },
			"chapter": { "type": "integer" },
			"verse": { "type": "integer" },
			"text": {
				"type": "text",
				"analyzer": "russian"
			},
			"azbyka_url": { "type": "keyword" },
			"azbyka_url2": { "type": "keyword" }
		}
	}
}`

// Маппинг индекса толкований: фильтрация по verse_id.
const commentaryMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "long" },
			"verse_id": { "type": "long" },
			"author": { "type": "keyword" },
			"label": { "type": "keyword" },
			"text_plain": {
				"type": "text",
				"analyzer": "russian"
			},
			"source_title": { "type": "keyword" },
			"source_url": { "type": "keyword" },
			"azbyka_url": { "type": "keyword" }
		}
	}
}`

// createIndexIfNotExists проверяет наличие индекса и создаёт его при отсутствии
func createIndexIfNotExists(indexName, mapping string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("ошибка при проверке существования индекса: %v", err)
		return err
	}
	// Статус 200 — индекс уже существует
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("индекс '%s' уже существует", indexName)
		return nil
	}
	// Статус 404 — индекса нет, создаём
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("неожиданный статус при проверке индекса '%s': %d", indexName, res.StatusCode)
		return fmt.Errorf("неожиданный статус при проверке индекса: %d", res.StatusCode)
	}

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("не удалось создать индекс '%s': %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("Elasticsearch вернул ошибку при создании индекса '%s': %s", indexName, res.String())
		return errors.New("Elasticsearch вернул ошибку при создании индекса")
	}

	log.Infof("индекс '%s' создан", indexName)
	return nil
}

// IndexDocument индексирует один документ с указанным идентификатором.
func IndexDocument(ctx context.Context, indexName, docID string, doc interface{}) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: docID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("ошибка индексации документа в Elasticsearch: %s", res.String())
		return errors.New("failed to index document")
	}

	return nil
}
