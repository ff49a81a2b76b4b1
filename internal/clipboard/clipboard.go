// Package clipboard копирует текст в системный буфер обмена.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrCopyFailed возвращается, если буфер обмена недоступен или запись не удалась.
var ErrCopyFailed = errors.New("clipboard copy failed")

var (
	clipboardWriteAll    = clipboard.WriteAll
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
)

// Copier копирует текст в буфер обмена.
type Copier interface {
	Copy(text string) error
}

// System реализует Copier поверх github.com/atotto/clipboard.
type System struct{}

// NewSystem создаёт Copier системного буфера обмена.
func NewSystem() *System {
	return &System{}
}

// Copy записывает text в системный буфер обмена.
func (s *System) Copy(text string) error {
	// на headless-машинах без xclip/xsel/wl-clipboard
	if clipboardUnsupported() {
		return fmt.Errorf("%w: no clipboard utilities available", ErrCopyFailed)
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}
	return nil
}

var _ Copier = (*System)(nil)
