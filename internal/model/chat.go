package model

import (
	"encoding/json"
	"errors"
	"time"
)

// MessageRole — роль автора сообщения в беседе.
type MessageRole string

const (
	RoleUser   MessageRole = "user"
	RoleModel  MessageRole = "model"
	RoleSystem MessageRole = "system"
)

// ContentKind — дискриминант варианта содержимого сообщения.
type ContentKind int

const (
	// ContentText — обычный текст (ввод пользователя).
	ContentText ContentKind = iota
	// ContentStructured — структурированный ответ модели.
	ContentStructured
)

// MessageContent — размеченное объединение: либо строка, либо
// структурированный ответ. Вариант фиксируется при создании и не меняется;
// потребитель обязан ветвиться по Kind, а не угадывать тип.
type MessageContent struct {
	kind       ContentKind
	text       string
	structured *StructuredContent
}

// NewTextContent создаёт текстовый вариант содержимого.
func NewTextContent(text string) MessageContent {
	return MessageContent{kind: ContentText, text: text}
}

// NewStructuredContent создаёт структурированный вариант содержимого.
func NewStructuredContent(sc StructuredContent) MessageContent {
	return MessageContent{kind: ContentStructured, structured: &sc}
}

// Kind возвращает дискриминант варианта.
func (c MessageContent) Kind() ContentKind {
	return c.kind
}

// Text возвращает текст; для структурированного варианта — пустую строку.
func (c MessageContent) Text() string {
	return c.text
}

// Structured возвращает структурированный ответ и признак его наличия.
func (c MessageContent) Structured() (*StructuredContent, bool) {
	if c.kind != ContentStructured || c.structured == nil {
		return nil, false
	}
	return c.structured, true
}

// MarshalJSON сериализует содержимое в ту же форму, что хранится в чате:
// строка для текста, объект для структурированного ответа.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.kind == ContentStructured {
		if c.structured == nil {
			return nil, errors.New("structured content is nil")
		}
		return json.Marshal(c.structured)
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON восстанавливает вариант по форме JSON-значения.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.kind = ContentText
		c.text = text
		c.structured = nil
		return nil
	}
	var sc StructuredContent
	if err := json.Unmarshal(data, &sc); err != nil {
		return err
	}
	c.kind = ContentStructured
	c.text = ""
	c.structured = &sc
	return nil
}

// Message — одно сообщение беседы. Вариант содержимого фиксируется при
// создании сообщения и тип никогда не меняется.
type Message struct {
	ID        string         `json:"id"`
	Role      MessageRole    `json:"role"`
	Content   MessageContent `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
}

// ChatSession — беседа пользователя: упорядоченная последовательность
// сообщений (порядок вставки = порядок беседы). Хранится в Redis как
// JSON-блоб целиком.
type ChatSession struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Folder string `json:"folder,omitempty"`
	// ModeID — режим, активный при создании; меняется только пока
	// в беседе нет сообщений.
	ModeID    string    `json:"modeId"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}
