// Package merge реализует автоматическое трёхстороннее слияние отметок.
//
// Слияние допустимо только когда локальная и серверная стороны изменили
// непересекающиеся поля относительно общего базового снимка: одна сторона
// изменила value, другая completed. Во всех остальных случаях конфликт
// передаётся пользователю.
package merge

import "github.com/iudanet/habitsync/internal/models"

// Field поле отметки, участвующее в слиянии
type Field uint8

const (
	FieldValue Field = 1 << iota
	FieldCompleted
)

// Has сообщает, содержит ли набор поле f
func (f Field) Has(other Field) bool {
	return f&other != 0
}

// Changed возвращает набор полей e, отличающихся от базового снимка
func Changed(e *models.Entry, baseValue *float64, baseCompleted *bool) Field {
	var changed Field
	if !models.FloatEqual(e.Value, baseValue) {
		changed |= FieldValue
	}
	if !models.BoolEqual(e.Completed, baseCompleted) {
		changed |= FieldCompleted
	}
	return changed
}

// MergeEntry пытается слить local и server относительно базового снимка из local.
// Возвращает слитую отметку и true, если обе стороны изменили ровно по одному
// разному полю. Без базового снимка слияние невозможно.
func MergeEntry(local, server *models.Entry) (*models.Entry, bool) {
	if local == nil || server == nil || !local.HasBase {
		return nil, false
	}

	localChanged := Changed(local, local.BaseValue, local.BaseCompleted)
	serverChanged := Changed(server, local.BaseValue, local.BaseCompleted)

	if !isSingle(localChanged) || !isSingle(serverChanged) || localChanged == serverChanged {
		return nil, false
	}

	merged := server.Clone()
	merged.Key = local.Key
	if localChanged.Has(FieldValue) {
		merged.Value = cloneValue(local)
	}
	if localChanged.Has(FieldCompleted) {
		merged.Completed = cloneCompleted(local)
	}

	return merged, true
}

// MergeTracker всегда отказывает: правки трекера (имя, категория, тип)
// не раскладываются на независимые поля, поэтому конфликты трекеров
// разрешаются только пользователем целиком.
func MergeTracker(_, _ *models.Tracker) (*models.Tracker, bool) {
	return nil, false
}

func isSingle(f Field) bool {
	return f == FieldValue || f == FieldCompleted
}

func cloneValue(e *models.Entry) *float64 {
	if e.Value == nil {
		return nil
	}
	return models.Float(*e.Value)
}

func cloneCompleted(e *models.Entry) *bool {
	if e.Completed == nil {
		return nil
	}
	return models.Bool(*e.Completed)
}
