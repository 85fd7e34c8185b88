package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[2m"
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// consoleHandler renders one log record per line for humans:
// "15:04:05 INF message key=value".
type consoleHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	color  bool
	attrs  []slog.Attr
	groups []string
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar, color bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: level, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var buf bytes.Buffer
	if h.color {
		buf.WriteString(ansiDim)
	}
	buf.WriteString(timestamp.Format("15:04:05"))
	if h.color {
		buf.WriteString(ansiReset)
	}
	buf.WriteByte(' ')
	buf.WriteString(h.levelTag(record.Level))
	buf.WriteByte(' ')
	buf.WriteString(record.Message)

	for _, attr := range h.attrs {
		h.appendAttr(&buf, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(&buf, attr)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) levelTag(level slog.Level) string {
	tag := "INF"
	color := ansiCyan
	switch {
	case level >= slog.LevelError:
		tag, color = "ERR", ansiRed
	case level >= slog.LevelWarn:
		tag, color = "WRN", ansiYellow
	case level < slog.LevelInfo:
		tag, color = "DBG", ansiDim
	}
	if !h.color {
		return tag
	}
	return color + tag + ansiReset
}

func (h *consoleHandler) appendAttr(buf *bytes.Buffer, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	buf.WriteByte(' ')
	if h.color {
		buf.WriteString(ansiDim)
	}
	buf.WriteString(key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(attr.Value))
	if h.color {
		buf.WriteString(ansiReset)
	}
}

func formatValue(value slog.Value) string {
	value = value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		text := value.String()
		if strings.ContainsAny(text, " \t") {
			return strconv.Quote(text)
		}
		return text
	case slog.KindTime:
		return value.Time().Format(time.RFC3339)
	default:
		return fmt.Sprint(value.Any())
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &consoleHandler{mu: h.mu, writer: h.writer, level: h.level, color: h.color, groups: h.groups}
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := &consoleHandler{mu: h.mu, writer: h.writer, level: h.level, color: h.color, attrs: h.attrs}
	clone.groups = append(append([]string{}, h.groups...), name)
	return clone
}
