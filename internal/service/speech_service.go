package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"enoch-go/internal/repository"
	"enoch-go/pkg/ai"
	"enoch-go/pkg/audio"
	"enoch-go/pkg/log"
	"enoch-go/pkg/storage"
)

// ErrSpeechUnavailable сигнализирует, что озвучивание сейчас недоступно.
// Это штатный сигнал, а не авария: вызывающая сторона показывает
// пользователю уведомление и отключает кнопку.
var ErrSpeechUnavailable = errors.New("speech synthesis is unavailable")

// speechRuneLimit — практический предел провайдера на длину озвучиваемого
// текста; излишек отбрасывается с многоточием.
const speechRuneLimit = 500

// SpeechService синтезирует речь и выдаёт готовый WAV.
type SpeechService interface {
	// Synthesize возвращает WAV-байты для текста указанным голосом.
	// Пустой voice — голос режима либо голос по умолчанию из конфигурации.
	Synthesize(ctx context.Context, text, voice, modeID string) ([]byte, error)
}

type speechService struct {
	client     ai.Client
	configRepo repository.ConfigRepository
	modes      ModeService
	store      storage.AudioStore
	// ttsModel и defaultVoice приходят из статической конфигурации:
	// администратор управляет только текстовой моделью.
	ttsModel     string
	defaultVoice string
}

// NewSpeechService создаёт сервис синтеза речи. store допускается nil —
// тогда кэширование аудио выключено.
func NewSpeechService(client ai.Client, configRepo repository.ConfigRepository, modes ModeService, store storage.AudioStore, ttsModel, defaultVoice string) SpeechService {
	if defaultVoice == "" {
		defaultVoice = "Fenrir"
	}
	return &speechService{
		client:       client,
		configRepo:   configRepo,
		modes:        modes,
		store:        store,
		ttsModel:     ttsModel,
		defaultVoice: defaultVoice,
	}
}

// truncateSpeechText обрезает текст до предела провайдера.
func truncateSpeechText(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= speechRuneLimit {
		return string(runes)
	}
	return string(runes[:speechRuneLimit]) + "..."
}

// cacheKey — детерминированный ключ аудио по тексту и голосу.
func cacheKey(text, voice string) string {
	sum := sha256.Sum256([]byte(text + "|" + voice))
	return "tts/" + hex.EncodeToString(sum[:]) + ".wav"
}

func (s *speechService) Synthesize(ctx context.Context, text, voice, modeID string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrSpeechUnavailable
	}
	cfg, err := s.configRepo.Get()
	if err != nil {
		log.Errorf("speech: failed to resolve app config: %v", err)
		return nil, ErrSpeechUnavailable
	}

	voice = s.resolveVoice(voice, modeID)

	prepared := truncateSpeechText(text)
	key := cacheKey(prepared, voice)

	if s.store != nil {
		if cached, err := s.store.Get(ctx, key); err == nil {
			return cached, nil
		} else if !errors.Is(err, storage.ErrObjectNotFound) {
			log.Warnf("speech: audio cache read failed: %v", err)
		}
	}

	raw, err := s.client.GenerateSpeech(ctx, ai.SpeechRequest{
		APIKey: cfg.AIAPIKey,
		Model:  s.ttsModel,
		Voice:  voice,
		Text:   prepared,
	})
	if err != nil {
		log.Errorf("speech: provider call failed: %v", err)
		return nil, ErrSpeechUnavailable
	}

	// Ответ провайдера не самоописываем: это либо WAV, либо сырой PCM.
	samples, sampleRate, err := audio.DecodeSamples(raw)
	if err != nil {
		log.Errorf("speech: failed to decode provider audio: %v", err)
		return nil, ErrSpeechUnavailable
	}
	wav := audio.EncodeWAV(samples, sampleRate)

	if s.store != nil {
		if err := s.store.Put(ctx, key, wav, "audio/wav"); err != nil {
			log.Warnf("speech: audio cache write failed: %v", err)
		}
	}
	return wav, nil
}

// resolveVoice выбирает голос: явный параметр, затем голос режима, затем
// голос по умолчанию.
func (s *speechService) resolveVoice(voice, modeID string) string {
	if voice != "" {
		return voice
	}
	if modeID != "" {
		if mode, err := s.modes.Get(modeID); err == nil && mode.VoiceName != "" {
			return mode.VoiceName
		}
	}
	return s.defaultVoice
}
