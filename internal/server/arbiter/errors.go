package arbiter

import "errors"

// ErrInvalidRequest возвращается, когда запрос клиента не прошел проверку.
// Конфликты версий ошибками не являются и возвращаются в ответе.
var ErrInvalidRequest = errors.New("invalid request")
