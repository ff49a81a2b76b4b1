// Package service содержит контроллер формы сокращения ссылок.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Totarae/tinylink/internal/clipboard"
	"github.com/Totarae/tinylink/internal/model"
	"github.com/Totarae/tinylink/internal/session"
	"github.com/Totarae/tinylink/internal/tinyurl"
)

//go:generate mockgen -source=form.go -destination=mocks/mocks.go -package=mocks

// Validator проверяет введённый URL.
type Validator interface {
	Validate(raw string) error
}

// Shortener получает короткую ссылку во внешнем сервисе.
type Shortener interface {
	Shorten(ctx context.Context, target string) (string, error)
}

// Copier копирует текст в буфер обмена.
type Copier interface {
	Copy(text string) error
}

// State обозначает состояние конечного автомата формы.
type State int

// Состояния формы
const (
	StateIdle State = iota
	StateValidating
	StateShortening
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateShortening:
		return "shortening"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome описывает результат обработки одного события формы.
type Outcome struct {
	State   State
	Message model.Message
	Err     error
}

// View содержит снимок для отрисовки формы.
type View struct {
	State    State
	ShortURL string
	CanCopy  bool
}

// FormController обрабатывает события формы одной сессии: отправку URL и копирование результата.
// Ошибки валидации, сокращения и буфера обмена не выходят за его пределы,
// они превращаются в сообщения Outcome.
type FormController struct {
	validator Validator
	shortener Shortener
	copier    Copier
	session   *session.State
	logger    *zap.Logger
	state     State
}

// NewFormController создаёт контроллер в состоянии Idle, владеющий состоянием сессии st.
func NewFormController(v Validator, s Shortener, c Copier, st *session.State, logger *zap.Logger) *FormController {
	return &FormController{
		validator: v,
		shortener: s,
		copier:    c,
		session:   st,
		logger:    logger,
		state:     StateIdle,
	}
}

// Submit обрабатывает отправку формы с введённым значением input.
// Пустое поле игнорируется без сообщения. Строка из одних пробелов считается
// введённой и не проходит валидацию.
func (f *FormController) Submit(ctx context.Context, input string) Outcome {
	if input == "" {
		return Outcome{State: f.state}
	}
	input = strings.TrimSpace(input)

	if f.state == StateDone {
		f.transition(StateIdle, "new submission")
	}
	f.transition(StateValidating, "submit")

	if err := f.validator.Validate(input); err != nil {
		f.transition(StateIdle, "invalid url")
		return Outcome{
			State:   f.state,
			Message: model.Message{Level: model.LevelError, Text: model.TextInvalidURL},
			Err:     err,
		}
	}

	f.transition(StateShortening, "valid url")

	short, err := f.shortener.Shorten(ctx, input)
	if err != nil {
		if !errors.Is(err, tinyurl.ErrShortenFailed) {
			err = &tinyurl.Error{Cause: err.Error()}
		}
		f.logger.Info("shorten failed", zap.String("url", input), zap.Error(err))
		f.transition(StateIdle, "shorten failed")
		return Outcome{
			State:   f.state,
			Message: model.Message{Level: model.LevelError, Text: err.Error()},
			Err:     err,
		}
	}

	f.session.Set(short)
	f.transition(StateDone, "shortened")

	return Outcome{
		State:   f.state,
		Message: model.Message{Level: model.LevelSuccess, Text: model.TextShortened},
	}
}

// Copy копирует текущую короткую ссылку в буфер обмена.
// При неудаче копирования выдаётся предупреждение, ссылка остаётся в сессии.
func (f *FormController) Copy() (out Outcome) {
	short, ok := f.session.Get()
	if !ok {
		return Outcome{
			State:   f.state,
			Message: model.Message{Level: model.LevelInfo, Text: model.TextNothingToCopy},
		}
	}

	defer func() {
		if r := recover(); r != nil {
			out = f.copyFailed(fmt.Errorf("%w: %v", clipboard.ErrCopyFailed, r))
		}
	}()

	if err := f.copier.Copy(short); err != nil {
		if !errors.Is(err, clipboard.ErrCopyFailed) {
			err = fmt.Errorf("%w: %v", clipboard.ErrCopyFailed, err)
		}
		return f.copyFailed(err)
	}

	f.logger.Debug("short url copied", zap.String("short", short))
	return Outcome{
		State:   f.state,
		Message: model.Message{Level: model.LevelInfo, Text: model.TextCopied},
	}
}

func (f *FormController) copyFailed(err error) Outcome {
	f.logger.Warn("clipboard copy failed", zap.Error(err))
	return Outcome{
		State:   f.state,
		Message: model.Message{Level: model.LevelWarning, Text: model.TextCopyFailed},
		Err:     err,
	}
}

// View возвращает снимок текущего состояния для отрисовки.
func (f *FormController) View() View {
	short, ok := f.session.Get()
	return View{
		State:    f.state,
		ShortURL: short,
		CanCopy:  ok,
	}
}

// State возвращает текущее состояние автомата.
func (f *FormController) State() State {
	return f.state
}

func (f *FormController) transition(to State, reason string) {
	f.logger.Debug("form transition",
		zap.Stringer("from", f.state),
		zap.Stringer("to", to),
		zap.String("reason", reason),
	)
	f.state = to
}
