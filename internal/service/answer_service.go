package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/ai"
	"enoch-go/pkg/log"
)

// Температуры сэмплирования: низкая для структурированного ответа,
// умеренная для свободных пояснений.
const (
	structuredTemperature  = 0.3
	explanationTemperature = 0.4
)

// AnswerService формирует ответы модели. Оба метода never-fail: любая
// ошибка провайдера или разбора превращается в деградированный, но
// полностью типизированный результат.
type AnswerService interface {
	// GenerateResponse выполняет полный конвейер: поиск контекста, вызов
	// провайдера со строгой схемой, разбор и санитизацию.
	GenerateResponse(ctx context.Context, history []ai.Turn, message string, modePrompt string) model.StructuredContent
	// GenerateExplanation генерирует короткое пояснение к толкованию.
	GenerateExplanation(ctx context.Context, userQuery, verseText, commentarySummary string) string
}

type answerService struct {
	retrieval  RetrievalService
	client     ai.Client
	configRepo repository.ConfigRepository
}

// NewAnswerService создаёт сервис генерации ответов.
func NewAnswerService(retrieval RetrievalService, client ai.Client, configRepo repository.ConfigRepository) AnswerService {
	return &answerService{
		retrieval:  retrieval,
		client:     client,
		configRepo: configRepo,
	}
}

// degraded возвращает деградированный ответ с указанным пастырским текстом.
func degraded(message string) model.StructuredContent {
	return model.StructuredContent{
		PastoralResponse: message,
		CitedVerses:      []model.CitedVerse{},
	}
}

func (s *answerService) GenerateResponse(ctx context.Context, history []ai.Turn, message string, modePrompt string) model.StructuredContent {
	cfg, err := s.configRepo.Get()
	if err != nil {
		log.Errorf("answer: failed to resolve app config: %v", err)
		return degraded(msgConnectivityError)
	}

	instruction := BaseSystemInstruction
	if strings.TrimSpace(modePrompt) != "" {
		instruction += "\n\n" + modePrompt
	}

	// Контекстный поиск: ошибки не фатальны, ответ формируется без контекста.
	verses, err := s.retrieval.SearchVerses(ctx, message)
	if err != nil {
		log.Warnf("answer: verse search failed, continuing without context: %v", err)
		verses = nil
	}
	if len(verses) > 0 {
		ids := make([]int64, 0, len(verses))
		for _, v := range verses {
			ids = append(ids, v.ID)
		}
		commentaries, err := s.retrieval.CommentariesForVerses(ctx, ids)
		if err != nil {
			log.Warnf("answer: commentary lookup failed: %v", err)
			commentaries = nil
		}
		instruction += "\n\n" + buildContextBlock(verses, commentaries)
	}

	raw, err := s.client.GenerateStructured(ctx, ai.GenerateRequest{
		APIKey:            cfg.AIAPIKey,
		Model:             cfg.AIModel,
		SystemInstruction: instruction,
		History:           history,
		Message:           message,
		Temperature:       structuredTemperature,
		Schema:            structuredContentSchema(),
	})
	if err != nil {
		log.Errorf("answer: provider call failed: %v", err)
		return degraded(msgConnectivityError)
	}

	return parseStructured(raw)
}

func (s *answerService) GenerateExplanation(ctx context.Context, userQuery, verseText, commentarySummary string) string {
	cfg, err := s.configRepo.Get()
	if err != nil {
		log.Errorf("explanation: failed to resolve app config: %v", err)
		return msgExplanationError
	}

	prompt := BaseSystemInstruction + "\n\n" +
		"Вопрос пользователя: " + userQuery + "\n" +
		"Стих: " + verseText + "\n" +
		"Толкование: " + commentarySummary + "\n\n" +
		"Поясни простыми словами, как это толкование отвечает на вопрос пользователя. Ответь кратко, 2–3 предложения."

	text, err := s.client.GenerateText(ctx, ai.TextRequest{
		APIKey:      cfg.AIAPIKey,
		Model:       cfg.AIModel,
		Prompt:      prompt,
		Temperature: explanationTemperature,
	})
	if err != nil {
		log.Errorf("explanation: provider call failed: %v", err)
		return msgExplanationError
	}
	if strings.TrimSpace(text) == "" {
		return msgExplanationEmpty
	}
	return strings.TrimSpace(text)
}

// buildContextBlock превращает найденные стихи и толкования в контекстный
// блок инструкции с директивой о приоритете базы данных.
func buildContextBlock(verses []model.BibleVerse, commentaries []model.BibleCommentary) string {
	var b strings.Builder
	b.WriteString("[[CONTEXT FROM DATABASE - USE THIS AS PRIMARY TRUTH]]\n")
	b.WriteString("Ниже приведены стихи и толкования, найденные в базе по вопросу пользователя.\n")
	b.WriteString("Опирайся на них в первую очередь. Каждый стих и каждое толкование, взятые из этого блока, помечай признаком dataSource = \"db\"; всё остальное помечай dataSource = \"ai\".\n")

	byVerse := make(map[int64][]model.BibleCommentary, len(commentaries))
	for _, c := range commentaries {
		byVerse[c.VerseID] = append(byVerse[c.VerseID], c)
	}

	for _, v := range verses {
		fmt.Fprintf(&b, "\nСтих (%s %d:%d): «%s»\n", v.BookName, v.Chapter, v.Verse, v.Text)
		if link := v.Link(); link != "" {
			fmt.Fprintf(&b, "Ссылка: %s\n", link)
		}
		for _, c := range byVerse[v.ID] {
			fmt.Fprintf(&b, "Толкование (%s): %s\n", c.Author, c.TextPlain)
			if c.SourceTitle != "" {
				fmt.Fprintf(&b, "Источник: %s\n", c.SourceTitle)
			}
			if link := c.Link(); link != "" {
				fmt.Fprintf(&b, "Ссылка на толкование: %s\n", link)
			}
		}
	}
	return b.String()
}

// structuredContentSchema описывает строгую схему ответа провайдера,
// зеркальную model.StructuredContent.
func structuredContentSchema() *genai.Schema {
	commentarySchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"author":     {Type: genai.TypeString},
			"summary":    {Type: genai.TypeString},
			"source":     {Type: genai.TypeString},
			"sourceUrl":  {Type: genai.TypeString},
			"dataSource": {Type: genai.TypeString, Enum: []string{"db", "ai"}},
		},
		Required: []string{"author", "summary", "dataSource"},
	}
	verseSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"reference":  {Type: genai.TypeString},
			"text":       {Type: genai.TypeString},
			"book":       {Type: genai.TypeString},
			"chapter":    {Type: genai.TypeInteger},
			"verse":      {Type: genai.TypeInteger},
			"dataSource": {Type: genai.TypeString, Enum: []string{"db", "ai"}},
			"azbykaUrl":  {Type: genai.TypeString},
			"commentaries": {
				Type:  genai.TypeArray,
				Items: commentarySchema,
			},
		},
		Required: []string{"reference", "text", "book", "chapter", "verse", "dataSource", "commentaries"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"pastoralResponse": {Type: genai.TypeString},
			"citedVerses": {
				Type:  genai.TypeArray,
				Items: verseSchema,
			},
		},
		Required: []string{"pastoralResponse", "citedVerses"},
	}
}

// codeFenceRe снимает обрамляющие маркеры кода вида ```json ... ```.
var codeFenceRe = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.*?)\\s*```\\s*$")

// stripCodeFences возвращает содержимое без обрамляющих маркеров кода.
func stripCodeFences(raw string) string {
	if m := codeFenceRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// pastoralFieldRe вытаскивает значение поля pastoralResponse из сырого
// текста, когда полный разбор JSON не удался.
var pastoralFieldRe = regexp.MustCompile(`"pastoralResponse"\s*:\s*("(?:[^"\\]|\\.)*")`)

// salvagePastoralResponse пытается спасти читаемый ответ из невалидного JSON.
func salvagePastoralResponse(raw string) (string, bool) {
	m := pastoralFieldRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	var value string
	if err := json.Unmarshal([]byte(m[1]), &value); err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// parseStructured разбирает сырой ответ провайдера и проводит его через
// санитизацию. Невалидный JSON деградирует до спасённого pastoralResponse
// либо до извинения.
func parseStructured(raw string) model.StructuredContent {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return degraded(msgCannotAnswer)
	}

	var parsed model.StructuredContent
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		log.Warnf("answer: malformed provider JSON: %v", err)
		if salvaged, ok := salvagePastoralResponse(cleaned); ok {
			return degraded(salvaged)
		}
		return degraded(msgCannotAnswer)
	}
	return sanitizeStructured(parsed)
}

// sanitizeStructured приводит разобранный ответ к полностью типизированному
// виду: пустые строки заменяются безопасными значениями, отсутствующие
// массивы — пустыми, недопустимые признаки происхождения — значением "ai".
func sanitizeStructured(in model.StructuredContent) model.StructuredContent {
	out := model.StructuredContent{
		PastoralResponse: strings.TrimSpace(in.PastoralResponse),
		CitedVerses:      make([]model.CitedVerse, 0, len(in.CitedVerses)),
	}
	if out.PastoralResponse == "" {
		out.PastoralResponse = degradedPastoralResponse
	}

	for _, v := range in.CitedVerses {
		sv := model.CitedVerse{
			Reference:    strings.TrimSpace(v.Reference),
			Text:         strings.TrimSpace(v.Text),
			Book:         strings.TrimSpace(v.Book),
			Chapter:      v.Chapter,
			Verse:        v.Verse,
			DataSource:   sanitizeSource(v.DataSource),
			AzbykaURL:    strings.TrimSpace(v.AzbykaURL),
			Commentaries: make([]model.Commentary, 0, len(v.Commentaries)),
		}
		for _, c := range v.Commentaries {
			sc := model.Commentary{
				Author:        strings.TrimSpace(c.Author),
				Summary:       strings.TrimSpace(c.Summary),
				Source:        strings.TrimSpace(c.Source),
				SourceURL:     strings.TrimSpace(c.SourceURL),
				AIExplanation: strings.TrimSpace(c.AIExplanation),
				DataSource:    sanitizeSource(c.DataSource),
			}
			if sc.Author == "" {
				sc.Author = msgUnknownAuthor
			}
			if sc.Source == "" {
				sc.Source = msgDefaultSource
			}
			sv.Commentaries = append(sv.Commentaries, sc)
		}
		out.CitedVerses = append(out.CitedVerses, sv)
	}
	return out
}

// sanitizeSource сводит произвольное значение происхождения к {db, ai}.
func sanitizeSource(s model.DataSource) model.DataSource {
	if s == model.SourceDB || s == model.SourceAI {
		return s
	}
	return model.SourceAI
}
