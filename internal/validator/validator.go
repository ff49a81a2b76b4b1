// Package validator проверяет, что пользовательский ввод является абсолютным URL.
package validator

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ErrInvalidURL возвращается, если строка не является корректным абсолютным URL.
var ErrInvalidURL = errors.New("invalid url")

var (
	errUnknownScheme = errors.New("unsupported scheme")
	errNoHost        = errors.New("missing host")
	errBadPort       = errors.New("port out of range")
)

// Validator проверяет синтаксис URL. Сетевая доступность не проверяется.
type Validator struct {
	allowedSchemes map[string]bool
}

// New создаёт валидатор со схемами http, https и ftp.
func New() *Validator {
	return &Validator{
		allowedSchemes: map[string]bool{"http": true, "https": true, "ftp": true},
	}
}

// IsValid сообщает, является ли raw абсолютным URL с известной схемой и хостом.
func (v *Validator) IsValid(raw string) bool {
	return v.Validate(raw) == nil
}

// Validate возвращает ErrInvalidURL, если raw не проходит проверку.
func (v *Validator) Validate(raw string) error {
	if err := validation.Validate(strings.TrimSpace(raw),
		validation.Required,
		validation.By(v.absoluteURL),
	); err != nil {
		return ErrInvalidURL
	}
	return nil
}

// absoluteURL проверяет схему, хост и порт. Длина URL не ограничивается.
func (v *Validator) absoluteURL(value any) error {
	raw, _ := value.(string)

	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	// схема уже приведена к нижнему регистру
	if !v.allowedSchemes[parsed.Scheme] {
		return errUnknownScheme
	}
	// "https:example.com" разбирается без хоста
	host := parsed.Hostname()
	if host == "" {
		return errNoHost
	}
	if err := is.Host.Validate(host); err != nil {
		return err
	}
	if port := parsed.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return errBadPort
		}
	}
	return nil
}
