package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Totarae/tinylink/internal/handlers"
	"github.com/Totarae/tinylink/internal/middleware"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5, "text/html", "application/json", "text/plain")) // Gzip-сжатие
	r.Use(middleware.SecurityHeaders)

	r.Get("/", handler.Index)
	r.Post("/shorten", handler.SubmitForm)
	r.Post("/copy", handler.CopyForm)
	r.Post("/api/shorten", handler.ReceiveShorten)
	r.Get("/ping", handler.Ping)
	return r
}
