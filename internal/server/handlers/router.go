package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router собирает handlers и middleware HTTP API
type Router struct {
	Sync       *SyncHandler
	Health     *HealthHandler
	Notify     *NotifyHandler
	Middleware []mux.MiddlewareFunc
}

// Handler возвращает mux.Router со всеми маршрутами API
func (rt Router) Handler() *mux.Router {
	r := mux.NewRouter()
	r.Use(rt.Middleware...)

	r.HandleFunc("/api/health", rt.Health.Health).Methods(http.MethodGet)

	s := r.PathPrefix("/api/sync").Subrouter()
	s.HandleFunc("/register", rt.Sync.Register).Methods(http.MethodPost)
	s.HandleFunc("/full", rt.Sync.Full).Methods(http.MethodGet)
	s.HandleFunc("/delta", rt.Sync.Delta).Methods(http.MethodGet)
	s.HandleFunc("/update", rt.Sync.Update).Methods(http.MethodPost)
	s.HandleFunc("/resolve-conflict", rt.Sync.ResolveConflict).Methods(http.MethodPost)
	s.HandleFunc("/conflicts", rt.Sync.Conflicts).Methods(http.MethodGet)
	s.HandleFunc("/status", rt.Sync.Status).Methods(http.MethodGet)
	if rt.Notify != nil {
		s.HandleFunc("/ws", rt.Notify.Subscribe).Methods(http.MethodGet)
	}

	return r
}
