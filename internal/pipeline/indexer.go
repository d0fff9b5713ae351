// Package pipeline содержит асинхронный конвейер индексации корпуса Писания.
package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"enoch-go/pkg/es"
	"enoch-go/pkg/kafka"
	"enoch-go/pkg/log"
	"enoch-go/pkg/tasks"
)

// Indexer обрабатывает задачи индексации из Kafka и пишет документы в
// Elasticsearch. Документы индексируются по стабильным идентификаторам:
// переиндексация корпуса идемпотентна.
type Indexer struct {
	verseIndex      string
	commentaryIndex string
}

// компилятор проверяет соответствие интерфейсу потребителя
var _ kafka.TaskProcessor = (*Indexer)(nil)

// NewIndexer создаёт обработчик задач индексации.
func NewIndexer(verseIndex, commentaryIndex string) *Indexer {
	return &Indexer{
		verseIndex:      verseIndex,
		commentaryIndex: commentaryIndex,
	}
}

// Process индексирует один документ корпуса.
func (i *Indexer) Process(ctx context.Context, task tasks.IndexTask) error {
	switch task.Kind {
	case tasks.KindVerse:
		if task.Verse == nil {
			return fmt.Errorf("verse task without verse payload")
		}
		docID := strconv.FormatInt(task.Verse.ID, 10)
		if err := es.IndexDocument(ctx, i.verseIndex, docID, task.Verse); err != nil {
			return fmt.Errorf("failed to index verse %s: %w", docID, err)
		}
		log.Infof("indexed verse %s (%s %d:%d)", docID, task.Verse.BookName, task.Verse.Chapter, task.Verse.Verse)
		return nil

	case tasks.KindCommentary:
		if task.Commentary == nil {
			return fmt.Errorf("commentary task without commentary payload")
		}
		docID := strconv.FormatInt(task.Commentary.ID, 10)
		if err := es.IndexDocument(ctx, i.commentaryIndex, docID, task.Commentary); err != nil {
			return fmt.Errorf("failed to index commentary %s: %w", docID, err)
		}
		log.Infof("indexed commentary %s (%s)", docID, task.Commentary.Author)
		return nil

	default:
		// Неизвестный вид задачи не ретраится.
		log.Warnf("skipping index task of unknown kind %q", task.Kind)
		return nil
	}
}
