package api

// RegisterRequest регистрирует клиента у сервера
type RegisterRequest struct {
	ClientID   string `json:"clientId" validate:"required,recordid"` // сгенерированный клиентом идентификатор
	ClientName string `json:"clientName,omitempty" validate:"max=128"`
}

// RegisterResponse ответ на регистрацию клиента
type RegisterResponse struct {
	Status   string `json:"status"`
	ClientID string `json:"clientId"`
}

// StatusResponse ответ GET /api/sync/status
type StatusResponse struct {
	LastModified string `json:"lastModified,omitempty"` // время последней успешной записи на сервере
}

// Notification сообщение, рассылаемое сервером через websocket после принятых изменений
type Notification struct {
	Type       string `json:"type"`       // "changed"
	ClientID   string `json:"clientId"`   // клиент, чьи изменения были приняты
	ServerTime string `json:"serverTime"` // время изменения
}

// NotificationChanged тип уведомления об изменении данных
const NotificationChanged = "changed"

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
