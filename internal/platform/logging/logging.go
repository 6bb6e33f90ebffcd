// Package logging は設定から構造化ロガーを構築します。
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/ogurasousui/staffing-workflow/internal/platform/config"
)

// New は log 設定に従った slog.Logger を返します。w が nil の場合は標準エラー出力へ書き込みます。
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
