package service

import (
	"fmt"

	"enoch-go/internal/model"
)

// themeColor — базовый цвет каталога тем: имя и тон HSL.
type themeColor struct {
	id         string
	name       string
	hue        int
	saturation int
}

// themeShape — вариант формы скругления.
type themeShape struct {
	id     string
	name   string
	radius string
}

// Каталог строится как декартово произведение цветов и форм; порядок
// объявления определяет порядок каталога.
var themeColors = []themeColor{
	{"sky", "Небо", 204, 70},
	{"gold", "Золото", 43, 74},
	{"olive", "Олива", 80, 35},
	{"wine", "Вино", 350, 55},
	{"sea", "Море", 174, 50},
	{"lavender", "Лаванда", 262, 45},
	{"amber", "Янтарь", 32, 80},
	{"moss", "Мох", 130, 30},
	{"clay", "Глина", 16, 50},
	{"slate", "Графит", 215, 16},
	{"rose", "Роза", 330, 55},
	{"cedar", "Кедр", 25, 35},
	{"ice", "Лёд", 195, 40},
}

var themeShapes = []themeShape{
	{"soft", "Мягкая", "0.75rem"},
	{"round", "Круглая", "1.5rem"},
	{"sharp", "Строгая", "0.25rem"},
	{"pill", "Капсула", "9999px"},
}

// paletteSteps — светлота каждой ступени шкалы от 50 до 950.
var paletteSteps = [11]int{97, 93, 86, 74, 60, 50, 42, 34, 26, 18, 10}

// ThemeService отдаёт детерминированный каталог тем и активную тему.
type ThemeService interface {
	Catalog() []model.Theme
	// Find возвращает тему по id; false — тема не из каталога.
	Find(id string) (model.Theme, bool)
	// Default возвращает первую тему каталога.
	Default() model.Theme
}

type themeService struct {
	catalog []model.Theme
	byID    map[string]model.Theme
}

// NewThemeService строит каталог тем один раз при старте.
func NewThemeService() ThemeService {
	colors := len(themeColors)
	shapes := len(themeShapes)
	catalog := make([]model.Theme, 0, colors*shapes)
	byID := make(map[string]model.Theme, colors*shapes)

	for _, color := range themeColors {
		for _, shape := range themeShapes {
			theme := model.Theme{
				ID:           color.id + "-" + shape.id,
				Name:         fmt.Sprintf("%s · %s", color.name, shape.name),
				Colors:       buildPalette(color.hue, color.saturation),
				BorderRadius: shape.radius,
			}
			catalog = append(catalog, theme)
			byID[theme.ID] = theme
		}
	}
	return &themeService{catalog: catalog, byID: byID}
}

// buildPalette строит шкалу HSL из базового тона.
func buildPalette(hue, saturation int) model.ThemePalette {
	step := func(i int) string {
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, saturation, paletteSteps[i])
	}
	return model.ThemePalette{
		C50:  step(0),
		C100: step(1),
		C200: step(2),
		C300: step(3),
		C400: step(4),
		C500: step(5),
		C600: step(6),
		C700: step(7),
		C800: step(8),
		C900: step(9),
		C950: step(10),
	}
}

func (s *themeService) Catalog() []model.Theme {
	out := make([]model.Theme, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *themeService) Find(id string) (model.Theme, bool) {
	theme, ok := s.byID[id]
	return theme, ok
}

func (s *themeService) Default() model.Theme {
	return s.catalog[0]
}
