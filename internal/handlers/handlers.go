package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/Totarae/tinylink/internal/auth"
	"github.com/Totarae/tinylink/internal/model"
	"github.com/Totarae/tinylink/internal/service"
	"github.com/Totarae/tinylink/internal/session"
	"github.com/Totarae/tinylink/internal/tinyurl"
	"github.com/Totarae/tinylink/internal/validator"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

const (
	pageTitle       = "Pro URL Shortener"
	pageSubtitle    = "Transform long URLs into short, shareable links with ease."
	pagePlaceholder = "https://example.com"

	maxFormBytes = 64 << 10
)

// Sessions хранит контроллеры формы по идентификатору сессии.
type Sessions = session.Registry[*service.FormController]

// Handler обслуживает страницу формы и JSON API. Каждое событие выполняется
// контроллером формы сессии, к которой относится запрос.
type Handler struct {
	auth     *auth.Auth
	sessions *Sessions
	logger   *zap.Logger
}

// NewHandler создаёт обработчики.
func NewHandler(a *auth.Auth, sessions *Sessions, logger *zap.Logger) *Handler {
	return &Handler{
		auth:     a,
		sessions: sessions,
		logger:   logger,
	}
}

// page — данные шаблона страницы.
type page struct {
	Title       string
	Subtitle    string
	Placeholder string
	Input       string
	Message     model.Message
	ShortURL    string
	CanCopy     bool
}

// Index отрисовывает форму с текущим результатом сессии.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var view service.View
	h.withSession(w, r, func(form *service.FormController) {
		view = form.View()
	})
	h.render(w, view, "", model.Message{})
}

// SubmitForm обрабатывает отправку формы (поле url).
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	input := r.PostFormValue("url")

	var (
		out  service.Outcome
		view service.View
	)
	h.withSession(w, r, func(form *service.FormController) {
		out = form.Submit(r.Context(), input)
		view = form.View()
	})
	h.render(w, view, input, out.Message)
}

// CopyForm копирует текущую короткую ссылку сессии в буфер обмена.
func (h *Handler) CopyForm(w http.ResponseWriter, r *http.Request) {
	var (
		out  service.Outcome
		view service.View
	)
	h.withSession(w, r, func(form *service.FormController) {
		out = form.Copy()
		view = form.View()
	})
	h.render(w, view, "", out.Message)
}

// ReceiveShorten принимает JSON {"url": "..."} и возвращает {"result": "<short url>"}.
func (h *Handler) ReceiveShorten(w http.ResponseWriter, r *http.Request) {
	var req model.ShortenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "URL empty"})
		return
	}

	var (
		out  service.Outcome
		view service.View
	)
	h.withSession(w, r, func(form *service.FormController) {
		out = form.Submit(r.Context(), req.URL)
		view = form.View()
	})

	switch {
	case out.Err == nil && out.State == service.StateDone:
		writeJSON(w, http.StatusCreated, model.ShortenResponse{Result: view.ShortURL})
	case errors.Is(out.Err, validator.ErrInvalidURL):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: out.Message.Text})
	case errors.Is(out.Err, tinyurl.ErrShortenFailed):
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{Error: out.Message.Text})
	default:
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "URL empty"})
	}
}

// Ping сообщает, что сервер жив.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*service.FormController)) {
	sessionID := h.auth.GetOrSetSessionID(w, r)
	h.sessions.Do(sessionID, fn)
}

func (h *Handler) render(w http.ResponseWriter, view service.View, input string, msg model.Message) {
	data := page{
		Title:       pageTitle,
		Subtitle:    pageSubtitle,
		Placeholder: pagePlaceholder,
		Input:       input,
		Message:     msg,
		ShortURL:    view.ShortURL,
		CanCopy:     view.CanCopy,
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
