package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"enoch-go/internal/model"
	"enoch-go/internal/repository"
	"enoch-go/pkg/log"
)

// ErrModeNotFound возвращается при обращении к несуществующему режиму.
var ErrModeNotFound = errors.New("chat mode not found")

// ErrLastMode запрещает удаление последнего оставшегося режима: беседам
// всегда нужен запасной режим.
var ErrLastMode = errors.New("cannot delete the last chat mode")

// ModeService управляет режимами беседы.
type ModeService interface {
	// EnsureDefaults засевает стандартные режимы при пустой таблице.
	EnsureDefaults() error
	// Resolve возвращает режим по id; при ссылке на удалённый режим
	// подставляется первый по времени создания.
	Resolve(id string) (*model.ChatMode, error)
	List() ([]model.ChatMode, error)
	Get(id string) (*model.ChatMode, error)
	Create(mode *model.ChatMode) error
	Update(mode *model.ChatMode) error
	Delete(id string) error
}

type modeService struct {
	modeRepo repository.ModeRepository
}

// NewModeService создаёт сервис режимов беседы.
func NewModeService(modeRepo repository.ModeRepository) ModeService {
	return &modeService{modeRepo: modeRepo}
}

// defaultModes — стандартный набор режимов при первом запуске.
func defaultModes() []model.ChatMode {
	return []model.ChatMode{
		{
			ID:           uuid.New().String(),
			Name:         "Пастырь",
			Description:  "Тёплая пастырская беседа о вере и жизни.",
			SystemPrompt: "Веди беседу как опытный приходской священник: отвечай кротко и утешительно, приводи примеры из жизни святых.",
			Icon:         "cross",
			VoiceName:    "Fenrir",
		},
		{
			ID:           uuid.New().String(),
			Name:         "Катехизатор",
			Description:  "Разъяснение основ вероучения и богослужения.",
			SystemPrompt: "Отвечай как катехизатор: структурированно, с точными определениями и обязательными ссылками на Писание и катехизис.",
			Icon:         "book",
			VoiceName:    "Charon",
		},
		{
			ID:           uuid.New().String(),
			Name:         "Спутник в молитве",
			Description:  "Помощь в молитвенном правиле и личной молитве.",
			SystemPrompt: "Помогай с молитвенным правилом: подсказывай молитвы к случаю, объясняй их смысл простыми словами.",
			Icon:         "candle",
			VoiceName:    "Kore",
		},
	}
}

func (s *modeService) EnsureDefaults() error {
	count, err := s.modeRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, mode := range defaultModes() {
		m := mode
		if err := s.modeRepo.Create(&m); err != nil {
			return err
		}
	}
	log.Info("seeded default chat modes")
	return nil
}

func (s *modeService) Resolve(id string) (*model.ChatMode, error) {
	if id != "" {
		mode, err := s.modeRepo.FindByID(id)
		if err == nil {
			return mode, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Warnf("mode %s not found, falling back to the oldest mode", id)
	}
	modes, err := s.modeRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(modes) == 0 {
		return nil, ErrModeNotFound
	}
	return &modes[0], nil
}

func (s *modeService) List() ([]model.ChatMode, error) {
	return s.modeRepo.FindAll()
}

func (s *modeService) Get(id string) (*model.ChatMode, error) {
	mode, err := s.modeRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModeNotFound
	}
	return mode, err
}

func (s *modeService) Create(mode *model.ChatMode) error {
	if mode.ID == "" {
		mode.ID = uuid.New().String()
	}
	return s.modeRepo.Create(mode)
}

func (s *modeService) Update(mode *model.ChatMode) error {
	if _, err := s.Get(mode.ID); err != nil {
		return err
	}
	return s.modeRepo.Update(mode)
}

func (s *modeService) Delete(id string) error {
	count, err := s.modeRepo.Count()
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastMode
	}
	return s.modeRepo.Delete(id)
}
