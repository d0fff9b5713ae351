package model

// BibleVerse соответствует таблице/индексу 'bible_verses'.
type BibleVerse struct {
	ID          int64  `json:"id"`
	Translation string `json:"translation"` // например 'RST'
	BookID      int    `json:"book_id"`
	BookName    string `json:"book_name"`
	Chapter     int    `json:"chapter"`
	Verse       int    `json:"verse"`
	Text        string `json:"text"`
	AzbykaURL   string `json:"azbyka_url,omitempty"`
	AzbykaURL2  string `json:"azbyka_url2,omitempty"`
}

// Link возвращает предпочтительную внешнюю ссылку на стих.
func (v BibleVerse) Link() string {
	if v.AzbykaURL != "" {
		return v.AzbykaURL
	}
	return v.AzbykaURL2
}

// BibleCommentary соответствует таблице/индексу 'bible_commentaries'.
type BibleCommentary struct {
	ID          int64  `json:"id"`
	VerseID     int64  `json:"verse_id"`
	BookID      int    `json:"book_id,omitempty"`
	BookName    string `json:"book_name,omitempty"`
	Chapter     int    `json:"chapter,omitempty"`
	Verse       int    `json:"verse,omitempty"`
	Label       string `json:"label,omitempty"` // «Толкование», «Беседа»
	Author      string `json:"author"`
	TextPlain   string `json:"text_plain"`
	SourceURL   string `json:"source_url,omitempty"`
	SourceTitle string `json:"source_title,omitempty"`
	AzbykaURL   string `json:"azbyka_url,omitempty"`
}

// Link возвращает предпочтительную внешнюю ссылку на толкование.
func (c BibleCommentary) Link() string {
	if c.AzbykaURL != "" {
		return c.AzbykaURL
	}
	return c.SourceURL
}
