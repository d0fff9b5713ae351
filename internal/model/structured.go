// Package model содержит определения моделей данных приложения.
package model

// DataSource помечает происхождение процитированного стиха или толкования.
type DataSource string

const (
	// SourceDB — данные получены из базы через контекстный поиск.
	SourceDB DataSource = "db"
	// SourceAI — данные сгенерированы моделью без опоры на базу.
	SourceAI DataSource = "ai"
)

// Commentary — святоотеческое толкование, привязанное к процитированному стиху.
type Commentary struct {
	Author  string `json:"author"`
	Summary string `json:"summary"`
	// Source — название труда или книги.
	Source    string `json:"source,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
	// AIExplanation заполняется лениво, строго один раз для пары
	// (индекс стиха, индекс толкования) внутри сообщения.
	AIExplanation string     `json:"aiExplanation,omitempty"`
	DataSource    DataSource `json:"dataSource"`
}

// CitedVerse — стих Писания, процитированный в структурированном ответе.
type CitedVerse struct {
	Reference    string       `json:"reference"`
	Text         string       `json:"text"`
	Book         string       `json:"book"`
	Chapter      int          `json:"chapter"`
	Verse        int          `json:"verse"`
	DataSource   DataSource   `json:"dataSource"`
	AzbykaURL    string       `json:"azbykaUrl,omitempty"`
	Commentaries []Commentary `json:"commentaries"`
}

// StructuredContent — обязательная форма ответа модели: пастырский текст
// плюс упорядоченный список цитат.
type StructuredContent struct {
	PastoralResponse string       `json:"pastoralResponse"`
	CitedVerses      []CitedVerse `json:"citedVerses"`
}
