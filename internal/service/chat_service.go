package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/ai"
	"enoch-go/pkg/log"
)

// Ошибки уровня сервиса бесед.
var (
	// ErrEmptyMessage — попытка отправить пустое сообщение.
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrChatNotEmpty — попытка сменить режим беседы с сообщениями.
	ErrChatNotEmpty = errors.New("chat mode is fixed once the chat has messages")
	// ErrExplanationInFlight — пояснение для этой пары (стих, толкование)
	// уже генерируется.
	ErrExplanationInFlight = errors.New("explanation already in progress")
	// ErrExplainTarget — сообщение, стих или толкование не найдены.
	ErrExplainTarget = errors.New("explanation target not found")
)

// defaultChatTitle — заголовок-заглушка до первого сообщения.
const defaultChatTitle = "Новая беседа"

// titleRuneLimit ограничивает длину заголовка, производного от первого
// сообщения.
const titleRuneLimit = 30

// ChatService управляет беседами: создание, отправка сообщений, ленивые
// пояснения к толкованиям.
type ChatService interface {
	CreateChat(ctx context.Context, userID, modeID, folder string) (*model.ChatSession, error)
	GetChats(ctx context.Context, userID string) ([]model.ChatSession, error)
	GetChat(ctx context.Context, userID, chatID string) (*model.ChatSession, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
	// SetChatMode меняет режим беседы; допустимо только пока в беседе
	// нет сообщений.
	SetChatMode(ctx context.Context, userID, chatID, modeID string) (*model.ChatSession, error)
	// SendMessage добавляет сообщение пользователя, получает структурированный
	// ответ модели и возвращает обновлённую беседу.
	SendMessage(ctx context.Context, userID, chatID, text string) (*model.ChatSession, error)
	// ExplainCommentary лениво заполняет aiExplanation указанного толкования.
	// Повторный вызов для уже заполненной пары — no-op.
	ExplainCommentary(ctx context.Context, userID, chatID, messageID string, verseIdx, commentaryIdx int) (*model.ChatSession, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	modes    ModeService
	answer   AnswerService
	// explaining хранит ключи пояснений, генерируемых прямо сейчас:
	// второй параллельный запрос той же пары отклоняется.
	explaining sync.Map
}

// NewChatService создаёт сервис бесед.
func NewChatService(chatRepo repository.ChatRepository, modes ModeService, answer AnswerService) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		modes:    modes,
		answer:   answer,
	}
}

func (s *chatService) CreateChat(ctx context.Context, userID, modeID, folder string) (*model.ChatSession, error) {
	mode, err := s.modes.Resolve(modeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chat mode: %w", err)
	}

	chat := &model.ChatSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     defaultChatTitle,
		Folder:    folder,
		ModeID:    mode.ID,
		CreatedAt: time.Now(),
		Messages:  []model.Message{},
	}
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) GetChats(ctx context.Context, userID string) ([]model.ChatSession, error) {
	return s.chatRepo.FindByUser(ctx, userID)
}

// ownedChat загружает беседу и проверяет принадлежность пользователю.
// Чужая беседа неотличима от несуществующей.
func (s *chatService) ownedChat(ctx context.Context, userID, chatID string) (*model.ChatSession, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, repository.ErrChatNotFound
	}
	return chat, nil
}

func (s *chatService) GetChat(ctx context.Context, userID, chatID string) (*model.ChatSession, error) {
	return s.ownedChat(ctx, userID, chatID)
}

func (s *chatService) DeleteChat(ctx context.Context, userID, chatID string) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	return s.chatRepo.Delete(ctx, userID, chatID)
}

func (s *chatService) SetChatMode(ctx context.Context, userID, chatID, modeID string) (*model.ChatSession, error) {
	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if len(chat.Messages) > 0 {
		return nil, ErrChatNotEmpty
	}
	mode, err := s.modes.Get(modeID)
	if err != nil {
		return nil, err
	}
	chat.ModeID = mode.ID
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) SendMessage(ctx context.Context, userID, chatID, text string) (*model.ChatSession, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	mode, err := s.modes.Resolve(chat.ModeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chat mode: %w", err)
	}

	// История для провайдера собирается до оптимистичного добавления.
	history := historyTurns(chat.Messages)

	// Сообщение пользователя добавляется и сохраняется до обращения к
	// провайдеру: порядок в беседе отражает порядок отправки.
	userMsg := model.Message{
		ID:        uuid.New().String(),
		Role:      model.RoleUser,
		Content:   model.NewTextContent(text),
		Timestamp: time.Now(),
	}
	chat.Messages = append(chat.Messages, userMsg)
	if len(chat.Messages) == 1 {
		chat.Title = deriveTitle(text)
	}
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, err
	}

	content := s.answer.GenerateResponse(ctx, history, text, mode.SystemPrompt)

	modelMsg := model.Message{
		ID:        uuid.New().String(),
		Role:      model.RoleModel,
		Content:   model.NewStructuredContent(content),
		Timestamp: time.Now(),
	}
	chat.Messages = append(chat.Messages, modelMsg)
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) ExplainCommentary(ctx context.Context, userID, chatID, messageID string, verseIdx, commentaryIdx int) (*model.ChatSession, error) {
	chat, err := s.ownedChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	msgIdx := -1
	for i := range chat.Messages {
		if chat.Messages[i].ID == messageID {
			msgIdx = i
			break
		}
	}
	if msgIdx < 0 {
		return nil, ErrExplainTarget
	}
	structured, ok := chat.Messages[msgIdx].Content.Structured()
	if !ok {
		return nil, ErrExplainTarget
	}
	if verseIdx < 0 || verseIdx >= len(structured.CitedVerses) {
		return nil, ErrExplainTarget
	}
	verse := &structured.CitedVerses[verseIdx]
	if commentaryIdx < 0 || commentaryIdx >= len(verse.Commentaries) {
		return nil, ErrExplainTarget
	}
	commentary := &verse.Commentaries[commentaryIdx]

	// Пояснение заполняется строго один раз; повторный запрос возвращает
	// беседу без изменений.
	if commentary.AIExplanation != "" {
		return chat, nil
	}

	key := fmt.Sprintf("%s|%s|%d|%d", chatID, messageID, verseIdx, commentaryIdx)
	if _, inFlight := s.explaining.LoadOrStore(key, struct{}{}); inFlight {
		return nil, ErrExplanationInFlight
	}
	defer s.explaining.Delete(key)

	userQuery := precedingUserText(chat.Messages, msgIdx)
	explanation := s.answer.GenerateExplanation(ctx, userQuery, verse.Text, commentary.Summary)
	commentary.AIExplanation = explanation

	chat.Messages[msgIdx].Content = model.NewStructuredContent(*structured)
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// historyTurns переводит сообщения беседы в словарь ролей провайдера.
// Структурированное содержимое передаётся провайдеру как JSON-текст.
func historyTurns(messages []model.Message) []ai.Turn {
	turns := make([]ai.Turn, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if msg.Role == model.RoleModel {
			role = "model"
		}
		text := msg.Content.Text()
		if sc, ok := msg.Content.Structured(); ok {
			data, err := json.Marshal(sc)
			if err != nil {
				log.Warnf("chat: failed to marshal structured history message %s: %v", msg.ID, err)
				continue
			}
			text = string(data)
		}
		turns = append(turns, ai.Turn{Role: role, Text: text})
	}
	return turns
}

// precedingUserText возвращает текст ближайшего пользовательского сообщения
// перед указанным индексом.
func precedingUserText(messages []model.Message, before int) string {
	for i := before - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleUser {
			return messages[i].Content.Text()
		}
	}
	return ""
}

// deriveTitle строит заголовок беседы из первого сообщения.
func deriveTitle(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= titleRuneLimit {
		return string(runes)
	}
	return string(runes[:titleRuneLimit]) + "..."
}
