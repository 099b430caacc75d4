package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State - сохраняемая между перезапусками отметка времени последнего опроса
type State struct {
	CurrentDate int64     `json:"current_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WatermarkRepository interface {
	// Load возвращает false, если сохраненного состояния нет
	Load() (int64, bool, error)
	Save(currentDate int64) error
}

type fileRepository struct {
	path string
}

func NewFileRepository(path string) WatermarkRepository {
	return &fileRepository{path: path}
}

func (r *fileRepository) Load() (int64, bool, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("ошибка чтения файла: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return 0, false, fmt.Errorf("ошибка парсинга JSON: %w", err)
	}
	return state.CurrentDate, true, nil
}

// Save пишет во временный файл и переименовывает его, чтобы не оставить
// половину JSON при падении
func (r *fileRepository) Save(currentDate int64) error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ошибка создания каталога: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("ошибка создания файла: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(State{CurrentDate: currentDate, UpdatedAt: time.Now().UTC()}); err != nil {
		file.Close()
		return fmt.Errorf("ошибка записи JSON: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("ошибка переименования файла: %w", err)
	}
	return nil
}

// nopRepository используется, когда state_file не задан
type nopRepository struct{}

func NewNopRepository() WatermarkRepository {
	return nopRepository{}
}

func (nopRepository) Load() (int64, bool, error) { return 0, false, nil }

func (nopRepository) Save(int64) error { return nil }
