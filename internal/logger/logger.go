// Package logger 负责构建全局使用的 zerolog 日志实例，
// 并提供把 GORM 日志转接到 zerolog 的适配器。
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// New 根据级别与格式创建日志实例，format 为 console 时输出人类可读格式。
func New(level, format string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter 与 New 相同，但允许指定输出目标，便于测试。
func NewWithWriter(w io.Writer, level, format string) zerolog.Logger {
	out := w
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", "dinopage").
		Logger()
}

// ParseLevel 将配置中的级别字符串转换为 zerolog.Level，未知值回退到 info。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// GormWriter 实现 gorm logger.Writer。
type GormWriter struct {
	log zerolog.Logger
}

// Printf 以 debug 级别写出 GORM 的日志行。
func (w GormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Str("component", "gorm").Msg(fmt.Sprintf(format, args...))
}

// NewGormLogger 返回一个通过 zerolog 输出的 GORM 日志器，慢查询阈值为 200ms。
func NewGormLogger(log zerolog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}

	return gormlogger.New(GormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
