package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enoch-go/internal/model"
	"enoch-go/pkg/storage"
)

// fakeAudioStore — кэш аудио в памяти.
type fakeAudioStore struct {
	objects map[string][]byte
	gets    int
	puts    int
}

func newFakeAudioStore() *fakeAudioStore {
	return &fakeAudioStore{objects: make(map[string][]byte)}
}

func (s *fakeAudioStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (s *fakeAudioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.puts++
	s.objects[key] = data
	return nil
}

var _ storage.AudioStore = (*fakeAudioStore)(nil)

func newSpeechFixture(client *stubAIClient, store storage.AudioStore) SpeechService {
	configRepo := &stubConfigRepo{cfg: &model.AppConfig{AIAPIKey: "test-key", AIModel: "test-model"}}
	modes := &fakeModeService{modes: []model.ChatMode{
		{ID: "mode-1", Name: "Пастырь", VoiceName: "Charon"},
		{ID: "mode-2", Name: "Катехизатор"},
	}}
	return NewSpeechService(client, configRepo, modes, store, "test-tts-model", "Fenrir")
}

// Провайдер вернул сырой PCM: ответ упаковывается в WAV-контейнер.
func TestSynthesizeWrapsRawPCM(t *testing.T) {
	client := &stubAIClient{speechResp: []byte{0x00, 0x40, 0x00, 0xC0}}
	svc := newSpeechFixture(client, nil)

	wav, err := svc.Synthesize(context.Background(), "Мир вам.", "", "")
	require.NoError(t, err)

	assert.Equal(t, "RIFF", string(wav[:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Len(t, wav, 44+4)
}

// Текст сверх предела провайдера обрезается с многоточием.
func TestSynthesizeTruncatesText(t *testing.T) {
	client := &stubAIClient{speechResp: []byte{0x00, 0x40}}
	svc := newSpeechFixture(client, nil)

	long := strings.Repeat("слово ", 120)
	_, err := svc.Synthesize(context.Background(), long, "", "")
	require.NoError(t, err)

	sent := []rune(client.lastSpeech.Text)
	assert.Len(t, sent, speechRuneLimit+3)
	assert.Equal(t, "...", string(sent[speechRuneLimit:]))
}

// Голос: явный параметр, затем голос режима, затем голос по умолчанию.
func TestSynthesizeVoiceResolution(t *testing.T) {
	client := &stubAIClient{speechResp: []byte{0x00, 0x40}}
	svc := newSpeechFixture(client, nil)

	_, err := svc.Synthesize(context.Background(), "текст", "Puck", "mode-1")
	require.NoError(t, err)
	assert.Equal(t, "Puck", client.lastSpeech.Voice)

	_, err = svc.Synthesize(context.Background(), "текст", "", "mode-1")
	require.NoError(t, err)
	assert.Equal(t, "Charon", client.lastSpeech.Voice)

	// у режима mode-2 голос не задан
	_, err = svc.Synthesize(context.Background(), "текст", "", "mode-2")
	require.NoError(t, err)
	assert.Equal(t, "Fenrir", client.lastSpeech.Voice)
}

// Повторный запрос того же текста тем же голосом берётся из кэша.
func TestSynthesizeCacheHit(t *testing.T) {
	client := &stubAIClient{speechResp: []byte{0x00, 0x40, 0x00, 0xC0}}
	store := newFakeAudioStore()
	svc := newSpeechFixture(client, store)

	first, err := svc.Synthesize(context.Background(), "Мир вам.", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, client.speechCalls)
	assert.Equal(t, 1, store.puts)

	second, err := svc.Synthesize(context.Background(), "Мир вам.", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, client.speechCalls, "второй запрос не обращается к провайдеру")
	assert.Equal(t, first, second)
}

// Любой сбой синтеза — штатный сигнал недоступности, не паника.
func TestSynthesizeUnavailable(t *testing.T) {
	svc := newSpeechFixture(&stubAIClient{speechErr: errors.New("audio quota exceeded")}, nil)
	_, err := svc.Synthesize(context.Background(), "текст", "", "")
	assert.ErrorIs(t, err, ErrSpeechUnavailable)

	svc = newSpeechFixture(&stubAIClient{speechResp: []byte{0x00, 0x40}}, nil)
	_, err = svc.Synthesize(context.Background(), "   ", "", "")
	assert.ErrorIs(t, err, ErrSpeechUnavailable)
}
