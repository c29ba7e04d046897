// Package log envolve o logrus com os identificadores de uma geração de
// relatório (correlação HTTP, execução e origem) propagados pelo contexto.
package log

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields é um alias para logrus.Fields
type Fields logrus.Fields

// Logger é uma interface que define os métodos de log
type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type contextKey string

const (
	// CorrelationIDKey identifica a requisição HTTP que originou o log
	CorrelationIDKey contextKey = "correlation_id"
	// RunIDKey identifica uma execução da geração de relatórios
	RunIDKey contextKey = "run_id"
	// TriggerKey indica quem disparou a execução (cli, api, cron ou manual)
	TriggerKey contextKey = "trigger"
)

// Origens possíveis de uma execução
const (
	TriggerCLI    = "cli"
	TriggerAPI    = "api"
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// Ordem em que os identificadores do contexto entram no log
var contextKeys = []contextKey{CorrelationIDKey, RunIDKey, TriggerKey}

// Campos mantidos em desenvolvimento além dos identificadores de contexto
// e dos campos com prefixo report_
var developmentFields = map[string]bool{
	"renderer":      true,
	"destination":   true,
	"method":        true,
	"path":          true,
	"status_code":   true,
	"duration_ms":   true,
	logrus.ErrorKey: true,
}

type logger struct {
	*logrus.Entry
}

// L é uma instância global de Logger para uso direto
var L Logger = &logger{Entry: logrus.NewEntry(logrus.StandardLogger())}

// IsDevelopment retorna verdadeiro se estamos em ambiente de desenvolvimento
func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

func keepField(key string) bool {
	for _, k := range contextKeys {
		if key == string(k) {
			return true
		}
	}
	return developmentFields[key] || strings.HasPrefix(key, "report_")
}

// SetupTestLogger configura um logger simplificado para testes
func SetupTestLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.DebugLevel)

	L = &logger{Entry: logrus.NewEntry(logrus.StandardLogger())}
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return l.WithFields(Fields{key: value})
}

// WithFields descarta em desenvolvimento os campos que só poluem a saída
func (l *logger) WithFields(fields Fields) Logger {
	kept := make(logrus.Fields, len(fields))
	development := IsDevelopment()
	for k, v := range fields {
		if !development || keepField(k) {
			kept[k] = v
		}
	}
	if len(kept) == 0 {
		return l
	}
	return &logger{Entry: l.Entry.WithFields(kept)}
}

func (l *logger) WithError(err error) Logger {
	return &logger{Entry: l.Entry.WithError(err)}
}

// WithContext anexa os identificadores de correlação, execução e origem
// presentes no contexto
func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	fields := Fields{}
	for _, key := range contextKeys {
		if value := stringValue(ctx, key); value != "" {
			fields[string(key)] = value
		}
	}

	return l.WithFields(fields)
}

func stringValue(ctx context.Context, key contextKey) string {
	value, _ := ctx.Value(key).(string)
	return value
}

// WithCorrelationID adiciona um ID de correlação novo ao contexto
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	correlationID := uuid.New().String()
	return context.WithValue(ctx, CorrelationIDKey, correlationID), correlationID
}

// GetCorrelationID obtém o ID de correlação do contexto
func GetCorrelationID(ctx context.Context) string {
	return stringValue(ctx, CorrelationIDKey)
}

// WithRunID associa o contexto a uma execução da geração de relatórios
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID obtém o ID da execução do contexto
func GetRunID(ctx context.Context) string {
	return stringValue(ctx, RunIDKey)
}

// WithTrigger registra a origem da execução no contexto. Uma origem já
// definida é preservada.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	if GetTrigger(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger obtém a origem da execução do contexto
func GetTrigger(ctx context.Context) string {
	return stringValue(ctx, TriggerKey)
}

// ForContext cria um logger com os identificadores do contexto
func ForContext(ctx context.Context) Logger {
	return L.WithContext(ctx)
}
