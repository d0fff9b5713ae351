package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/ai"
)

// fakeChatRepo — хранилище бесед в памяти. Копирует данные через JSON,
// имитируя сериализацию в Redis-блоб.
type fakeChatRepo struct {
	mu    sync.Mutex
	chats map[string]string
	saves int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]string)}
}

func (r *fakeChatRepo) Save(ctx context.Context, chat *model.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := json.Marshal(chat)
	if err != nil {
		return err
	}
	r.chats[chat.ID] = string(data)
	r.saves++
	return nil
}

func (r *fakeChatRepo) FindByID(ctx context.Context, chatID string) (*model.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.chats[chatID]
	if !ok {
		return nil, repository.ErrChatNotFound
	}
	var chat model.ChatSession
	if err := json.Unmarshal([]byte(data), &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *fakeChatRepo) FindByUser(ctx context.Context, userID string) ([]model.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.ChatSession
	for _, data := range r.chats {
		var chat model.ChatSession
		if err := json.Unmarshal([]byte(data), &chat); err != nil {
			return nil, err
		}
		if chat.UserID == userID {
			result = append(result, chat)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeChatRepo) Delete(ctx context.Context, userID, chatID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chats, chatID)
	return nil
}

func (r *fakeChatRepo) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}

// fakeModeService — режимы в памяти с тем же правилом подстановки первого.
type fakeModeService struct {
	modes []model.ChatMode
}

func (s *fakeModeService) EnsureDefaults() error { return nil }

func (s *fakeModeService) Resolve(id string) (*model.ChatMode, error) {
	if id != "" {
		for i := range s.modes {
			if s.modes[i].ID == id {
				return &s.modes[i], nil
			}
		}
	}
	if len(s.modes) == 0 {
		return nil, ErrModeNotFound
	}
	return &s.modes[0], nil
}

func (s *fakeModeService) Get(id string) (*model.ChatMode, error) {
	for i := range s.modes {
		if s.modes[i].ID == id {
			return &s.modes[i], nil
		}
	}
	return nil, ErrModeNotFound
}

func (s *fakeModeService) List() ([]model.ChatMode, error) { return s.modes, nil }
func (s *fakeModeService) Create(mode *model.ChatMode) error {
	s.modes = append(s.modes, *mode)
	return nil
}
func (s *fakeModeService) Update(mode *model.ChatMode) error { return nil }
func (s *fakeModeService) Delete(id string) error            { return nil }

// fakeAnswer — ответчик с фиксированным структурированным ответом и
// управляемой блокировкой генерации пояснений.
type fakeAnswer struct {
	mu           sync.Mutex
	explainCalls int
	explainGate  chan struct{}
	lastPrompt   string
}

func (a *fakeAnswer) GenerateResponse(ctx context.Context, history []ai.Turn, message, modePrompt string) model.StructuredContent {
	a.mu.Lock()
	a.lastPrompt = modePrompt
	a.mu.Unlock()
	return model.StructuredContent{
		PastoralResponse: "Мир вам.",
		CitedVerses: []model.CitedVerse{
			{
				Reference:  "Мф. 5:3",
				Text:       "Блаженны нищие духом...",
				Book:       "Мф.",
				Chapter:    5,
				Verse:      3,
				DataSource: model.SourceDB,
				Commentaries: []model.Commentary{
					{Author: "Иоанн Златоуст", Summary: "О смирении", DataSource: model.SourceDB},
				},
			},
		},
	}
}

func (a *fakeAnswer) GenerateExplanation(ctx context.Context, userQuery, verseText, commentarySummary string) string {
	a.mu.Lock()
	a.explainCalls++
	gate := a.explainGate
	a.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return "Пояснение святителя простыми словами."
}

func (a *fakeAnswer) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.explainCalls
}

func newChatFixture() (ChatService, *fakeChatRepo, *fakeModeService, *fakeAnswer) {
	repo := newFakeChatRepo()
	modes := &fakeModeService{modes: []model.ChatMode{
		{ID: "mode-1", Name: "Пастырь", SystemPrompt: "Отвечай кротко."},
		{ID: "mode-2", Name: "Катехизатор", SystemPrompt: "Отвечай структурированно."},
	}}
	answer := &fakeAnswer{}
	return NewChatService(repo, modes, answer), repo, modes, answer
}

func TestCreateChat(t *testing.T) {
	svc, _, _, _ := newChatFixture()

	chat, err := svc.CreateChat(context.Background(), "user-1", "mode-2", "Вопросы о молитве")
	require.NoError(t, err)

	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, "user-1", chat.UserID)
	assert.Equal(t, "mode-2", chat.ModeID)
	assert.Equal(t, "Вопросы о молитве", chat.Folder)
	assert.Equal(t, defaultChatTitle, chat.Title)
	assert.Empty(t, chat.Messages)
}

// Ссылка на несуществующий режим при создании подставляет первый режим.
func TestCreateChatModeFallback(t *testing.T) {
	svc, _, _, _ := newChatFixture()

	chat, err := svc.CreateChat(context.Background(), "user-1", "deleted-mode", "")
	require.NoError(t, err)
	assert.Equal(t, "mode-1", chat.ModeID)
}

// Сообщение пользователя и ответ модели добавляются в порядке отправки;
// заголовок выводится из первого сообщения.
func TestSendMessage(t *testing.T) {
	svc, repo, _, answer := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "mode-2", "")
	require.NoError(t, err)

	updated, err := svc.SendMessage(context.Background(), "user-1", chat.ID, "Блаженны нищие духом?")
	require.NoError(t, err)

	require.Len(t, updated.Messages, 2)
	assert.Equal(t, model.RoleUser, updated.Messages[0].Role)
	assert.Equal(t, "Блаженны нищие духом?", updated.Messages[0].Content.Text())
	assert.Equal(t, model.RoleModel, updated.Messages[1].Role)

	sc, ok := updated.Messages[1].Content.Structured()
	require.True(t, ok)
	assert.Equal(t, "Мир вам.", sc.PastoralResponse)

	assert.Equal(t, "Блаженны нищие духом?", updated.Title)
	assert.Equal(t, "Отвечай структурированно.", answer.lastPrompt)

	// сообщение пользователя сохранено отдельно, до ответа модели
	assert.GreaterOrEqual(t, repo.saves, 3)

	stored, err := repo.FindByID(context.Background(), chat.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 2)
}

// Длинное первое сообщение обрезается в заголовке до предела с многоточием.
func TestSendMessageTitleTruncation(t *testing.T) {
	svc, _, _, _ := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	long := "Как научиться непрестанной молитве среди житейской суеты и забот?"
	updated, err := svc.SendMessage(context.Background(), "user-1", chat.ID, long)
	require.NoError(t, err)

	runes := []rune(updated.Title)
	assert.Len(t, runes, titleRuneLimit+3)
	assert.Equal(t, "...", string(runes[titleRuneLimit:]))
	assert.Equal(t, string([]rune(long)[:titleRuneLimit]), string(runes[:titleRuneLimit]))
}

// Заголовок не пересчитывается после первого сообщения.
func TestSendMessageTitleStable(t *testing.T) {
	svc, _, _, _ := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), "user-1", chat.ID, "Первый вопрос")
	require.NoError(t, err)
	updated, err := svc.SendMessage(context.Background(), "user-1", chat.ID, "Второй вопрос")
	require.NoError(t, err)

	assert.Equal(t, "Первый вопрос", updated.Title)
	assert.Len(t, updated.Messages, 4)
}

func TestSendMessageEmpty(t *testing.T) {
	svc, _, _, _ := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), "user-1", chat.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

// Чужая беседа неотличима от несуществующей.
func TestChatOwnership(t *testing.T) {
	svc, _, _, _ := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)

	_, err = svc.GetChat(context.Background(), "user-2", chat.ID)
	assert.ErrorIs(t, err, repository.ErrChatNotFound)

	_, err = svc.SendMessage(context.Background(), "user-2", chat.ID, "текст")
	assert.ErrorIs(t, err, repository.ErrChatNotFound)
}

// Беседы возвращаются от новых к старым.
func TestGetChatsOrder(t *testing.T) {
	svc, repo, _, _ := newChatFixture()
	base := time.Now()
	for i, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, repo.Save(context.Background(), &model.ChatSession{
			ID:        id,
			UserID:    "user-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Messages:  []model.Message{},
		}))
	}

	chats, err := svc.GetChats(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, "c3", chats[0].ID)
	assert.Equal(t, "c1", chats[2].ID)
}

// Режим меняется только пока беседа пуста.
func TestSetChatMode(t *testing.T) {
	svc, _, _, _ := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "mode-1", "")
	require.NoError(t, err)

	updated, err := svc.SetChatMode(context.Background(), "user-1", chat.ID, "mode-2")
	require.NoError(t, err)
	assert.Equal(t, "mode-2", updated.ModeID)

	_, err = svc.SendMessage(context.Background(), "user-1", chat.ID, "вопрос")
	require.NoError(t, err)

	_, err = svc.SetChatMode(context.Background(), "user-1", chat.ID, "mode-1")
	assert.ErrorIs(t, err, ErrChatNotEmpty)
}

func TestDeleteChat(t *testing.T) {
	svc, repo, _, _ := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	require.Equal(t, 1, repo.size())

	require.NoError(t, svc.DeleteChat(context.Background(), "user-1", chat.ID))
	assert.Equal(t, 0, repo.size())
}

// Пояснение заполняется ровно один раз: повторный запрос той же пары не
// обращается к провайдеру и не перезаписывает текст.
func TestExplainCommentaryOnce(t *testing.T) {
	svc, _, _, answer := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	sent, err := svc.SendMessage(context.Background(), "user-1", chat.ID, "Блаженны нищие духом?")
	require.NoError(t, err)
	messageID := sent.Messages[1].ID

	first, err := svc.ExplainCommentary(context.Background(), "user-1", chat.ID, messageID, 0, 0)
	require.NoError(t, err)
	sc, ok := first.Messages[1].Content.Structured()
	require.True(t, ok)
	explanation := sc.CitedVerses[0].Commentaries[0].AIExplanation
	assert.NotEmpty(t, explanation)
	assert.Equal(t, 1, answer.calls())

	second, err := svc.ExplainCommentary(context.Background(), "user-1", chat.ID, messageID, 0, 0)
	require.NoError(t, err)
	sc, ok = second.Messages[1].Content.Structured()
	require.True(t, ok)
	assert.Equal(t, explanation, sc.CitedVerses[0].Commentaries[0].AIExplanation)
	assert.Equal(t, 1, answer.calls())
}

// Параллельный запрос той же пары, пока первый ещё генерируется, отклоняется.
func TestExplainCommentaryInFlight(t *testing.T) {
	svc, _, _, answer := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	sent, err := svc.SendMessage(context.Background(), "user-1", chat.ID, "Блаженны нищие духом?")
	require.NoError(t, err)
	messageID := sent.Messages[1].ID

	gate := make(chan struct{})
	answer.mu.Lock()
	answer.explainGate = gate
	answer.mu.Unlock()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := svc.ExplainCommentary(context.Background(), "user-1", chat.ID, messageID, 0, 0)
		done <- err
	}()
	<-started
	// первый вызов должен дойти до провайдера и встать на заглушке
	require.Eventually(t, func() bool { return answer.calls() == 1 }, time.Second, 5*time.Millisecond)

	_, err = svc.ExplainCommentary(context.Background(), "user-1", chat.ID, messageID, 0, 0)
	assert.ErrorIs(t, err, ErrExplanationInFlight)

	close(gate)
	require.NoError(t, <-done)
}

func TestExplainCommentaryBadTarget(t *testing.T) {
	svc, _, _, _ := newChatFixture()
	chat, err := svc.CreateChat(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	sent, err := svc.SendMessage(context.Background(), "user-1", chat.ID, "Блаженны нищие духом?")
	require.NoError(t, err)

	_, err = svc.ExplainCommentary(context.Background(), "user-1", chat.ID, "no-such-message", 0, 0)
	assert.ErrorIs(t, err, ErrExplainTarget)

	// сообщение пользователя не содержит структурированного ответа
	_, err = svc.ExplainCommentary(context.Background(), "user-1", chat.ID, sent.Messages[0].ID, 0, 0)
	assert.ErrorIs(t, err, ErrExplainTarget)

	_, err = svc.ExplainCommentary(context.Background(), "user-1", chat.ID, sent.Messages[1].ID, 5, 0)
	assert.ErrorIs(t, err, ErrExplainTarget)
}

// компилятор подтверждает соответствие фейков интерфейсам
var (
	_ repository.ChatRepository = (*fakeChatRepo)(nil)
	_ ModeService               = (*fakeModeService)(nil)
	_ AnswerService             = (*fakeAnswer)(nil)
)
