// Package kafka предоставляет функции работы с очередью сообщений Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"enoch-go/internal/config"
	"enoch-go/pkg/database"
	"enoch-go/pkg/log"
	"enoch-go/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// TaskProcessor определяет интерфейс обработчика задач индексации.
// Отвязывает консьюмер Kafka от конкретной реализации конвейера.
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.IndexTask) error
}

var producer *kafka.Writer

// InitProducer инициализирует продюсер Kafka.
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka продюсер инициализирован")
}

// ProduceIndexTask отправляет задачу индексации в Kafka.
func ProduceIndexTask(task tasks.IndexTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	err = producer.WriteMessages(context.Background(),
		kafka.Message{
			Value: taskBytes,
		},
	)
	return err
}

// taskKey возвращает ключ задачи для подсчёта неудачных попыток.
func taskKey(task tasks.IndexTask) string {
	switch {
	case task.Verse != nil:
		return fmt.Sprintf("%s:%d", task.Kind, task.Verse.ID)
	case task.Commentary != nil:
		return fmt.Sprintf("%s:%d", task.Kind, task.Commentary.ID)
	}
	return task.Kind
}

// StartConsumer запускает консьюмер Kafka для обработки задач индексации.
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "enoch-go-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka консьюмер запущен, слушает топик '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("не удалось прочитать сообщение из Kafka", err)
			break
		}

		var task tasks.IndexTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("не удалось разобрать сообщение Kafka: %v, value: %s", err, string(m.Value))
			// Сообщение битое: коммитим, чтобы не блокировать очередь
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("не удалось закоммитить битое сообщение: %v", err)
			}
			continue
		}

		key := taskKey(task)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("обработка задачи индексации не удалась: %s, error: %v", key, err)
			// Считаем неудачные попытки в Redis; после порога коммитим
			// offset и прекращаем повторы.
			attemptsKey := fmt.Sprintf("kafka:attempts:%s", key)
			attempts, incErr := database.RDB.Incr(context.Background(), attemptsKey).Result()
			if incErr == nil {
				_ = database.RDB.Expire(context.Background(), attemptsKey, 24*time.Hour).Err()
			}
			if incErr != nil {
				// При недоступном Redis offset не коммитим — Kafka повторит
				continue
			}
			if attempts >= 3 {
				log.Errorf("задача многократно падает (>=3), прекращаем повторы: %s", key)
				if err := r.CommitMessages(context.Background(), m); err != nil {
					log.Errorf("не удалось закоммитить offset: %v", err)
				}
			}
		} else {
			// Задача обработана: чистим счётчик и коммитим offset
			_ = database.RDB.Del(context.Background(), fmt.Sprintf("kafka:attempts:%s", key)).Err()
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("не удалось закоммитить offset: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("не удалось закрыть Kafka консьюмер: %v", err)
	}
}
