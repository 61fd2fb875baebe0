// Package logging 保存 captionate 各子包共享的 slog 日志器。
//
// 默认不输出任何日志；调用方（例如命令行入口）通过 SetLogger 打开。
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有日志记录；Enabled 返回 false，调用方不会格式化消息。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 设置全局日志器，传 nil 恢复静默。可并发调用。
//
// 使用的级别：
//   - Debug：每个字号的试排结果、缓存命中
//   - Info：请求与批处理的生命周期
//   - Warn：字体降级（回退链的第 2～5 步）
//   - Error：颜色解析失败后使用默认色、单条字幕失败
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
