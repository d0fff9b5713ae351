package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"enoch-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// ErrChatNotFound возвращается, когда беседа с указанным id отсутствует.
var ErrChatNotFound = errors.New("chat not found")

// ChatRepository определяет операции хранения бесед.
// Беседа хранится целиком как JSON-блоб; у каждого пользователя есть
// отсортированный индекс бесед по времени создания.
type ChatRepository interface {
	// Save выполняет upsert беседы по id; повторное сохранение той же
	// беседы не создаёт дубликатов.
	Save(ctx context.Context, chat *model.ChatSession) error
	FindByID(ctx context.Context, chatID string) (*model.ChatSession, error)
	// FindByUser возвращает беседы пользователя от новых к старым.
	FindByUser(ctx context.Context, userID string) ([]model.ChatSession, error)
	Delete(ctx context.Context, userID, chatID string) error
}

type redisChatRepository struct {
	redisClient *redis.Client
}

// NewChatRepository создаёт новый экземпляр ChatRepository.
func NewChatRepository(redisClient *redis.Client) ChatRepository {
	return &redisChatRepository{redisClient: redisClient}
}

func chatKey(chatID string) string {
	return fmt.Sprintf("chat:%s", chatID)
}

func userChatsKey(userID string) string {
	return fmt.Sprintf("user:%s:chats", userID)
}

// Save сохраняет беседу и обновляет индекс пользователя.
func (r *redisChatRepository) Save(ctx context.Context, chat *model.ChatSession) error {
	jsonData, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("failed to marshal chat session: %w", err)
	}
	if err := r.redisClient.Set(ctx, chatKey(chat.ID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	// Индекс пользователя: score — время создания, сортировка стабильна
	// при повторном сохранении той же беседы.
	member := &redis.Z{Score: float64(chat.CreatedAt.UnixNano()), Member: chat.ID}
	if err := r.redisClient.ZAdd(ctx, userChatsKey(chat.UserID), member).Err(); err != nil {
		return fmt.Errorf("failed to index chat session: %w", err)
	}
	return nil
}

// FindByID читает беседу по идентификатору.
func (r *redisChatRepository) FindByID(ctx context.Context, chatID string) (*model.ChatSession, error) {
	jsonData, err := r.redisClient.Get(ctx, chatKey(chatID)).Result()
	if err == redis.Nil {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	var chat model.ChatSession
	if err := json.Unmarshal([]byte(jsonData), &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat session: %w", err)
	}
	return &chat, nil
}

// FindByUser возвращает беседы пользователя, новые первыми.
func (r *redisChatRepository) FindByUser(ctx context.Context, userID string) ([]model.ChatSession, error) {
	ids, err := r.redisClient.ZRevRange(ctx, userChatsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read user chat index: %w", err)
	}
	chats := make([]model.ChatSession, 0, len(ids))
	for _, id := range ids {
		chat, err := r.FindByID(ctx, id)
		if errors.Is(err, ErrChatNotFound) {
			// Осиротевшая запись индекса: беседа удалена, чистим.
			_ = r.redisClient.ZRem(ctx, userChatsKey(userID), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	return chats, nil
}

// Delete удаляет беседу и её запись в индексе пользователя.
func (r *redisChatRepository) Delete(ctx context.Context, userID, chatID string) error {
	if err := r.redisClient.Del(ctx, chatKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	if err := r.redisClient.ZRem(ctx, userChatsKey(userID), chatID).Err(); err != nil {
		return fmt.Errorf("failed to remove chat from index: %w", err)
	}
	return nil
}
