package model

// ThemePalette — шкала оттенков темы от светлого (50) к тёмному (950).
// Значения — строки HSL, готовые для CSS-переменных клиента.
type ThemePalette struct {
	C50  string `json:"50"`
	C100 string `json:"100"`
	C200 string `json:"200"`
	C300 string `json:"300"`
	C400 string `json:"400"`
	C500 string `json:"500"`
	C600 string `json:"600"`
	C700 string `json:"700"`
	C800 string `json:"800"`
	C900 string `json:"900"`
	C950 string `json:"950"`
}

// Theme — визуальная тема интерфейса: палитра плюс форма скругления.
// Каталог тем генерируется детерминированно, в базе не хранится.
type Theme struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Colors       ThemePalette `json:"colors"`
	BorderRadius string       `json:"borderRadius"`
}
