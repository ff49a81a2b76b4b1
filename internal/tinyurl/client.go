// Package tinyurl реализует клиент внешнего сервиса сокращения ссылок TinyURL.
package tinyurl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultEndpoint — адрес API создания короткой ссылки.
const DefaultEndpoint = "https://tinyurl.com/api-create.php"

const userAgent = "tinylink/1.0"

// ErrShortenFailed оборачивает любую ошибку сокращения: сеть, статус ответа, тело ответа.
var ErrShortenFailed = errors.New("shorten failed")

// URLValidator проверяет, что тело ответа похоже на URL.
type URLValidator interface {
	IsValid(raw string) bool
}

// Config настройки клиента.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client ходит в API TinyURL. Каждый вызов Shorten делает ровно один исходящий запрос, без повторов.
type Client struct {
	http      *resty.Client
	endpoint  string
	validator URLValidator
	logger    *zap.Logger
}

// New создаёт клиента. Нулевой Timeout означает отсутствие таймаута.
func New(cfg Config, validator URLValidator, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := resty.New().
		SetRetryCount(0).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/plain")

	return &Client{
		http:      httpClient,
		endpoint:  endpoint,
		validator: validator,
		logger:    logger,
	}
}

// Shorten возвращает короткую ссылку для target либо ошибку, обёрнутую в ErrShortenFailed.
func (c *Client) Shorten(ctx context.Context, target string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("url", target).
		Get(c.endpoint)
	if err != nil {
		c.logger.Warn("tinyurl request failed", zap.String("url", target), zap.Error(err))
		return "", shortenError(err.Error())
	}

	if !resp.IsSuccess() {
		c.logger.Warn("tinyurl returned non-success status",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode()),
		)
		return "", shortenError(fmt.Sprintf("unexpected response status %s", resp.Status()))
	}

	short := strings.TrimSpace(resp.String())
	if short == "" {
		return "", shortenError("empty response body")
	}
	// ответ нетипизирован, считаем успехом только то, что похоже на URL
	if !c.validator.IsValid(short) {
		c.logger.Warn("tinyurl returned malformed body", zap.String("body", truncate(short, 128)))
		return "", shortenError("malformed response body")
	}

	c.logger.Debug("url shortened", zap.String("url", target), zap.String("short", short))
	return short, nil
}

// Error описывает причину неудачного сокращения в виде, пригодном для показа пользователю.
type Error struct {
	Cause string
}

func (e *Error) Error() string {
	return "Error shortening URL: " + e.Cause
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrShortenFailed).
func (e *Error) Unwrap() error {
	return ErrShortenFailed
}

func shortenError(cause string) error {
	return &Error{Cause: cause}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
