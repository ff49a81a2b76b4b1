package model

// Level определяет вид сообщения в интерфейсе.
type Level string

// Уровни сообщений
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Message — строчное сообщение для пользователя. Нулевое значение означает отсутствие сообщения.
type Message struct {
	Level Level
	Text  string
}

// Empty сообщает, что показывать нечего.
func (m Message) Empty() bool {
	return m.Text == ""
}

// Тексты сообщений формы
const (
	TextInvalidURL    = "Please enter a valid URL (e.g., https://example.com)"
	TextShortened     = "URL shortened successfully!"
	TextCopied        = "Short URL copied to clipboard!"
	TextCopyFailed    = "Failed to copy to clipboard. Please copy the URL manually."
	TextNothingToCopy = "Nothing to copy yet."
)
