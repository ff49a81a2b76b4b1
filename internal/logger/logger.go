// Пакет logger. Журнал
package logger

import (
	"go.uber.org/zap"
)

// NewZapLog создаёт zap-логгер с уровнем level ("debug", "info", "warn", "error").
func NewZapLog(level string) (*zap.Logger, error) {
	// преобразуем текстовый уровень логирования в zap.AtomicLevel
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl

	return zapcfg.Build()
}
