// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey identifies request-scoped values that handlers propagate
// through context and the logging pipeline picks up automatically.
type ContextKey string

const (
	ContextKeyRequestID   ContextKey = "request_id"
	ContextKeyUserID      ContextKey = "user_id"
	ContextKeySessionID   ContextKey = "session_id"
	ContextKeyTraceID     ContextKey = "trace_id"
	ContextKeySpanID      ContextKey = "span_id"
	ContextKeyClientIP    ContextKey = "client_ip"
	ContextKeyUserAgent   ContextKey = "user_agent"
	ContextKeyMethod      ContextKey = "method"
	ContextKeyPath        ContextKey = "path"
	ContextKeyStatusCode  ContextKey = "status_code"
	ContextKeyDuration    ContextKey = "duration_ms"
	ContextKeyEnvironment ContextKey = "environment"
	ContextKeyService     ContextKey = "service"
	ContextKeyVersion     ContextKey = "version"
)

// OutputConfig describes one additional log destination beyond the
// primary writer. Type selects the handler ("elasticsearch", "file").
type OutputConfig struct {
	Type    string         `json:"type"`
	Level   string         `json:"level"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level            string         `json:"level"`
	Format           string         `json:"format"`
	Output           string         `json:"output"`
	AddSource        bool           `json:"add_source"`
	SampleRate       float64        `json:"sample_rate"`
	Environment      string         `json:"environment"`
	ServiceName      string         `json:"service_name"`
	ServiceVersion   string         `json:"service_version"`
	EnableSampling   bool           `json:"enable_sampling"`
	EnableStackTrace bool           `json:"enable_stack_trace"`
	Outputs          []OutputConfig `json:"outputs"`
}

// Logger wraps slog.Logger with context extraction and the handler
// pipeline built from LogConfig.
type Logger struct {
	*slog.Logger
	config   *LogConfig
	handlers []slog.Handler
}

// SetupLogger builds the process-wide logger from the level and format
// the config layer resolved, plus optional LOG_* environment overrides
// for shipping logs to Elasticsearch. It also installs the result as
// the slog default.
func SetupLogger(level string, format string) *Logger {
	cfg := &LogConfig{
		Level:            level,
		Format:           format,
		Output:           "stdout",
		AddSource:        true,
		EnableStackTrace: level == "debug",
		ServiceName:      os.Getenv("SERVICE_NAME"),
		ServiceVersion:   os.Getenv("SERVICE_VERSION"),
		Environment:      os.Getenv("APP_ENV"),
	}

	if rate, err := strconv.ParseFloat(os.Getenv("LOG_SAMPLE_RATE"), 64); err == nil && rate > 0 && rate < 1 {
		cfg.EnableSampling = true
		cfg.SampleRate = rate
	}

	if esURL := os.Getenv("LOG_ELASTICSEARCH_URL"); esURL != "" {
		index := os.Getenv("LOG_ELASTICSEARCH_INDEX")
		if index == "" {
			index = "pharmapos-logs"
		}
		cfg.Outputs = append(cfg.Outputs, OutputConfig{
			Type:  "elasticsearch",
			Level: level,
			Options: map[string]any{
				"elasticsearch_url": esURL,
				"index_pattern":     index,
				"username":          os.Getenv("LOG_ELASTICSEARCH_USER"),
				"password":          os.Getenv("LOG_ELASTICSEARCH_PASSWORD"),
				"enable_batching":   true,
			},
		})
	}

	l := NewLogger(cfg)
	slog.SetDefault(l.Logger)
	return l
}

// NewLogger assembles the handler chain: format handler, context
// enrichment, optional sampling, sanitization, then fan-out to any
// extra outputs.
func NewLogger(cfg *LogConfig) *Logger {
	if cfg == nil {
		cfg = &LogConfig{Level: "info", Format: "json", Output: "stdout"}
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return replaceAttr(cfg, groups, a)
		},
	}

	writer := resolveWriter(cfg.Output)

	var primary slog.Handler
	switch cfg.Format {
	case "text":
		primary = NewPrettyTextHandler(writer, opts)
	default:
		primary = slog.NewJSONHandler(writer, opts)
	}

	primary = NewContextHandler(primary)
	if cfg.EnableSampling && cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		primary = NewSamplingHandler(primary, cfg.SampleRate)
	}
	primary = NewSanitizationHandler(primary)

	handlers := []slog.Handler{primary}
	for _, out := range cfg.Outputs {
		if h := buildOutputHandler(out); h != nil {
			handlers = append(handlers, h)
		}
	}

	final := handlers[0]
	if len(handlers) > 1 {
		final = NewMultiHandler(handlers...)
	}

	var attrs []slog.Attr
	if cfg.ServiceName != "" {
		attrs = append(attrs, slog.String("service", cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", cfg.ServiceVersion))
	}
	if cfg.Environment != "" {
		attrs = append(attrs, slog.String("env", cfg.Environment))
	}
	if len(attrs) > 0 {
		final = final.WithAttrs(attrs)
	}

	return &Logger{
		Logger:   slog.New(final),
		config:   cfg,
		handlers: handlers,
	}
}

// WithContext returns an slog.Logger carrying every request-scoped
// value present in ctx as an attribute.
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	attrs := extractContextAttrs(ctx, contextKeys)
	if len(attrs) > 0 {
		return l.Logger.With(attrs...)
	}
	return l.Logger
}

// ErrorContext logs at error level and attaches a stack trace when the
// logger runs with stack traces enabled.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	if l.config.EnableStackTrace {
		args = append(args, slog.String("stack", string(stackTrace())))
	}
	l.WithContext(ctx).Log(ctx, slog.LevelError, msg, args...)
}

var contextKeys = []ContextKey{
	ContextKeyRequestID,
	ContextKeyUserID,
	ContextKeySessionID,
	ContextKeyTraceID,
	ContextKeySpanID,
	ContextKeyClientIP,
	ContextKeyUserAgent,
	ContextKeyMethod,
	ContextKeyPath,
	ContextKeyStatusCode,
	ContextKeyDuration,
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(output string) io.Writer {
	switch {
	case output == "stderr":
		return os.Stderr
	case strings.HasPrefix(output, "file:"):
		name := strings.TrimPrefix(output, "file:")
		if f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			return f
		}
		return os.Stdout
	default:
		return os.Stdout
	}
}

func extractContextAttrs(ctx context.Context, keys []ContextKey) []any {
	var attrs []any
	for _, key := range keys {
		val := ctx.Value(key)
		if val == nil {
			continue
		}
		name := string(key)
		switch v := val.(type) {
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(name, v))
			}
		case int:
			attrs = append(attrs, slog.Int(name, v))
		case int64:
			attrs = append(attrs, slog.Int64(name, v))
		case float64:
			attrs = append(attrs, slog.Float64(name, v))
		case bool:
			attrs = append(attrs, slog.Bool(name, v))
		case time.Duration:
			attrs = append(attrs, slog.Duration(name, v))
		case time.Time:
			attrs = append(attrs, slog.Time(name, v))
		case uuid.UUID:
			attrs = append(attrs, slog.String(name, v.String()))
		default:
			attrs = append(attrs, slog.Any(name, v))
		}
	}
	return attrs
}

func stackTrace() []byte {
	buf := make([]byte, 8*1024)
	n := runtime.Stack(buf, false)
	return buf[:n]
}

func replaceAttr(cfg *LogConfig, _ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
		}
	}

	// Log aggregators expect "severity" rather than slog's "level".
	if a.Key == slog.LevelKey && cfg.Format == "json" {
		a.Key = "severity"
	}

	if strings.HasSuffix(a.Key, "_ms") {
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Float64Value(float64(d.Milliseconds()))
		}
	}

	return a
}

func buildOutputHandler(out OutputConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(out.Level),
		AddSource: true,
	}

	switch out.Type {
	case "elasticsearch":
		var elkCfg ELKConfig
		if raw, err := json.Marshal(out.Options); err == nil {
			_ = json.Unmarshal(raw, &elkCfg)
		}
		if elkCfg.ElasticsearchURL == "" {
			return nil
		}
		return NewELKHandler(elkCfg, slog.NewJSONHandler(io.Discard, opts))

	case "file":
		if name, ok := out.Options["filename"].(string); ok {
			if f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				return slog.NewJSONHandler(f, opts)
			}
		}
	}

	return nil
}
