// Package tasks определяет структуры задач, отправляемых в Kafka.
package tasks

import "enoch-go/internal/model"

// Виды задач индексации корпуса.
const (
	KindVerse      = "verse"
	KindCommentary = "commentary"
)

// IndexTask — задача индексации одного документа корпуса в Elasticsearch.
// Заполнено ровно одно из полей Verse/Commentary согласно Kind.
type IndexTask struct {
	Kind       string                 `json:"kind"`
	Verse      *model.BibleVerse      `json:"verse,omitempty"`
	Commentary *model.BibleCommentary `json:"commentary,omitempty"`
}
