package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// IDPattern определяет допустимый формат идентификаторов трекеров и клиентов
// Латинские буквы, цифры, "_", "-", "." и ":"; длина 1-128 символов
var IDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]{1,128}$`)

const (
	// DateLayout формат даты отметки
	DateLayout = "2006-01-02"
	// MaxTrackerNameLen максимальная длина имени трекера
	MaxTrackerNameLen = 256
)

// ValidateID проверяет идентификатор трекера или клиента
func ValidateID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%s id cannot be empty", kind)
	}

	if !IDPattern.MatchString(id) {
		return fmt.Errorf("%s id %q can only contain letters, numbers, '_', '-', '.', ':' and be at most 128 characters", kind, id)
	}

	return nil
}

// ValidateTrackerName проверяет имя трекера
func ValidateTrackerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("tracker name cannot be empty")
	}

	if len(name) > MaxTrackerNameLen {
		return fmt.Errorf("tracker name must not exceed %d characters", MaxTrackerNameLen)
	}

	return nil
}

// ValidateDate проверяет дату отметки в формате YYYY-MM-DD
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

// New создает валидатор DTO с зарегистрированным тегом "recordid"
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("recordid", func(fl validator.FieldLevel) bool {
		return IDPattern.MatchString(fl.Field().String())
	})
	return v
}

// Describe превращает ошибки валидатора в короткое сообщение для ответа клиенту
func Describe(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}

	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
