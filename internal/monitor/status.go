package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mdemidenko/homework-bot/internal/models"
)

var (
	ErrUnexpectedType = errors.New("неверный тип данных в ответе API")
	ErrMissingKey     = errors.New("в ответе API отсутствует ключ")
	ErrUnknownStatus  = errors.New("неизвестный статус домашней работы")
)

const (
	keyHomeworks    = "homeworks"
	keyCurrentDate  = "current_date"
	keyStatus       = "status"
	keyHomeworkName = "homework_name"
)

// CheckResponse проверяет, что ответ API имеет ожидаемую форму,
// и возвращает список работ без изменений
func CheckResponse(body any) ([]any, error) {
	response, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: ответ %T, ожидался словарь", ErrUnexpectedType, body)
	}

	raw, ok := response[keyHomeworks]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingKey, keyHomeworks)
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q имеет тип %T, ожидался список", ErrUnexpectedType, keyHomeworks, raw)
	}

	if _, ok := response[keyCurrentDate]; !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingKey, keyCurrentDate)
	}

	return homeworks, nil
}

// CurrentDate извлекает current_date из проверенного ответа
func CurrentDate(body any) (int64, error) {
	response, ok := body.(map[string]any)
	if !ok {
		return 0, fmt.Errorf("%w: ответ %T, ожидался словарь", ErrUnexpectedType, body)
	}
	raw, ok := response[keyCurrentDate]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrMissingKey, keyCurrentDate)
	}

	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
	case float64:
		if v == math.Trunc(v) {
			return int64(v), nil
		}
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}
	return 0, fmt.Errorf("%w: %q = %v, ожидалось целое число", ErrUnexpectedType, keyCurrentDate, raw)
}

// ParseHomework превращает запись из ответа API в models.Homework
func ParseHomework(homework any) (models.Homework, error) {
	record, ok := homework.(map[string]any)
	if !ok {
		return models.Homework{}, fmt.Errorf("%w: работа %T, ожидался словарь", ErrUnexpectedType, homework)
	}

	rawStatus, ok := record[keyStatus]
	if !ok {
		return models.Homework{}, fmt.Errorf("%w %q", ErrMissingKey, keyStatus)
	}
	status, _ := rawStatus.(string)
	hw := models.Homework{Status: status}
	if _, known := hw.Verdict(); !known {
		return models.Homework{}, fmt.Errorf("%w: %v", ErrUnknownStatus, rawStatus)
	}

	rawName, ok := record[keyHomeworkName]
	if !ok {
		return models.Homework{}, fmt.Errorf("%w %q", ErrMissingKey, keyHomeworkName)
	}
	hw.Name = fmt.Sprint(rawName)

	return hw, nil
}

// ParseStatus формирует текст уведомления о смене статуса
func ParseStatus(homework any) (string, error) {
	hw, err := ParseHomework(homework)
	if err != nil {
		return "", err
	}
	verdict, _ := hw.Verdict()
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", hw.Name, verdict), nil
}
