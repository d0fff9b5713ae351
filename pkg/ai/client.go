// Package ai предоставляет клиент генеративного провайдера (Gemini).
package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// Turn — один ход беседы в словаре ролей провайдера ('user' / 'model').
type Turn struct {
	Role string
	Text string
}

// GenerateRequest — запрос текстовой генерации со структурированным выводом.
// Ключ и модель приходят в каждом запросе: действующая конфигурация
// резолвится вызывающей стороной непосредственно перед обращением.
type GenerateRequest struct {
	APIKey            string
	Model             string
	SystemInstruction string
	History           []Turn
	Message           string
	Temperature       float32
	// Schema — строгая схема формы ответа; при nil провайдер отвечает
	// свободным текстом.
	Schema *genai.Schema
}

// TextRequest — запрос короткой свободной генерации по одному промпту.
type TextRequest struct {
	APIKey      string
	Model       string
	Prompt      string
	Temperature float32
}

// SpeechRequest — запрос синтеза речи именованным голосом.
type SpeechRequest struct {
	APIKey string
	Model  string
	Voice  string
	Text   string
}

// ErrNoAudio возвращается, когда провайдер не вернул аудиоданные.
var ErrNoAudio = errors.New("provider returned no audio data")

// Client определяет интерфейс клиента генеративного провайдера.
type Client interface {
	// GenerateStructured выполняет генерацию с принудительной JSON-схемой
	// и возвращает сырой текст ответа.
	GenerateStructured(ctx context.Context, req GenerateRequest) (string, error)
	// GenerateText выполняет свободную генерацию по одному промпту.
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	// GenerateSpeech синтезирует речь и возвращает сырые аудиобайты
	// (PCM без контейнера либо контейнерный формат — провайдер не
	// гарантирует самоописываемость).
	GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// geminiClient — реализация Client поверх официального SDK.
// Экземпляры SDK кэшируются по API-ключу: смена ключа администратором
// приводит к созданию нового экземпляра при следующем вызове.
type geminiClient struct {
	mu      sync.Mutex
	clients map[string]*genai.Client
}

// NewClient создаёт новый клиент генеративного провайдера.
func NewClient() Client {
	return &geminiClient{clients: make(map[string]*genai.Client)}
}

// clientFor возвращает SDK-клиент для указанного ключа.
func (c *geminiClient) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("provider API key is empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[apiKey]; ok {
		return client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	c.clients[apiKey] = client
	return client, nil
}

// GenerateStructured выполняет генерацию со строгой схемой ответа.
func (c *geminiClient) GenerateStructured(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := c.clientFor(ctx, req.APIKey)
	if err != nil {
		return "", err
	}

	// История плюс новое сообщение пользователя
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		var role genai.Role = genai.RoleUser
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}
	return resp.Text(), nil
}

// GenerateText выполняет свободную генерацию по одному промпту.
func (c *geminiClient) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	client, err := c.clientFor(ctx, req.APIKey)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}
	return resp.Text(), nil
}

// GenerateSpeech синтезирует речь именованным голосом.
func (c *geminiClient) GenerateSpeech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	client, err := c.clientFor(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Text, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: req.Voice,
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai speech failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, ErrNoAudio
}
