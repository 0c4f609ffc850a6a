package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Settings stores config for Logger
type Settings struct {
	Path       string `yaml:"path"`
	Name       string `yaml:"name"`
	Ext        string `yaml:"ext"`
	TimeFormat string `yaml:"time-format"`
	Level      string `yaml:"level"`
	// MaxSize is the size in megabytes of a log file before it gets rotated
	MaxSize    int `yaml:"max-size"`
	MaxBackups int `yaml:"max-backups"`
	MaxAge     int `yaml:"max-age"`
}

type LogLevel int

// Output levels
const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

const (
	defaultCallerDepth = 2
	defaultTimeFormat  = "2006/01/02 15:04:05"
)

var (
	levelFlags = []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	zapLevels  = []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
		zapcore.DPanicLevel, // logged without exiting or panicking in a production core
	}
)

func (level LogLevel) String() string {
	if level < DEBUG || level > FATAL {
		return "UNKNOWN"
	}
	return levelFlags[level]
}

// ParseLevel converts a level name such as "warn" into LogLevel, unknown names fall back to INFO
func ParseLevel(name string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARNING
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	}
	return INFO
}

// ILogger defines the methods that any logger should implement
type ILogger interface {
	Output(level LogLevel, callerDepth int, msg string)
}

// Logger writes leveled entries through zap
type Logger struct {
	zap     *zap.Logger
	level   zap.AtomicLevel
	rotator *lumberjack.Logger
}

var DefaultLogger ILogger = NewStdoutLogger()

func encoderConfig(timeFormat string) zapcore.EncoderConfig {
	if timeFormat == "" {
		timeFormat = defaultTimeFormat
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		for i, zl := range zapLevels {
			if zl == l {
				enc.AppendString("[" + levelFlags[i] + "]")
				return
			}
		}
		enc.AppendString("[" + l.CapitalString() + "]")
	}
	cfg.ConsoleSeparator = " "
	return cfg
}

func newLogger(level LogLevel, timeFormat string, rotator *lumberjack.Logger, sinks ...zapcore.WriteSyncer) *Logger {
	atom := zap.NewAtomicLevelAt(zapLevels[level])
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(timeFormat)),
		zapcore.NewMultiWriteSyncer(sinks...),
		atom,
	)
	return &Logger{
		zap:     zap.New(core),
		level:   atom,
		rotator: rotator,
	}
}

// NewStdoutLogger creates a logger which print msg to stdout
func NewStdoutLogger() *Logger {
	return newLogger(INFO, "", nil, zapcore.Lock(os.Stdout))
}

// NewWriterLogger creates a logger which print msg to the given sink, mostly for tests
func NewWriterLogger(w zapcore.WriteSyncer, level LogLevel) *Logger {
	return newLogger(level, "", nil, w)
}

// NewFileLogger creates a logger which print msg to stdout and a rotating log file
func NewFileLogger(settings *Settings) (*Logger, error) {
	if settings.Path != "" {
		if err := os.MkdirAll(settings.Path, 0o755); err != nil {
			return nil, fmt.Errorf("logging.Join err: %s", err)
		}
	}
	ext := strings.TrimPrefix(settings.Ext, ".")
	if ext == "" {
		ext = "log"
	}
	name := settings.Name
	if settings.TimeFormat != "" {
		name = name + "-" + time.Now().Format(settings.TimeFormat)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(settings.Path, name+"."+ext),
		MaxSize:    settings.MaxSize,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAge,
	}
	return newLogger(ParseLevel(settings.Level), "", rotator,
		zapcore.Lock(os.Stdout), zapcore.AddSync(rotator)), nil
}

// Setup initializes DefaultLogger
func Setup(settings *Settings) {
	logger, err := NewFileLogger(settings)
	if err != nil {
		panic(err)
	}
	DefaultLogger = logger
}

// SetLevel changes the minimum level written by the logger
func (logger *Logger) SetLevel(level LogLevel) {
	logger.level.SetLevel(zapLevels[level])
}

// Close flushes buffered entries and releases the log file
func (logger *Logger) Close() error {
	_ = logger.zap.Sync()
	if logger.rotator != nil {
		return logger.rotator.Close()
	}
	return nil
}

// Output sends a msg to logger
func (logger *Logger) Output(level LogLevel, callerDepth int, msg string) {
	if level < DEBUG || level > FATAL {
		level = INFO
	}
	ce := logger.zap.Check(zapLevels[level], strings.TrimSuffix(msg, "\n"))
	if ce == nil {
		return
	}
	if _, file, line, ok := runtime.Caller(callerDepth); ok {
		ce.Write(zap.String("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line)))
		return
	}
	ce.Write()
}

// Debug logs debug message through DefaultLogger
func Debug(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(DEBUG, defaultCallerDepth, msg)
}

// Debugf logs debug message through DefaultLogger
func Debugf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.Output(DEBUG, defaultCallerDepth, msg)
}

// Info logs message through DefaultLogger
func Info(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(INFO, defaultCallerDepth, msg)
}

// Infof logs message through DefaultLogger
func Infof(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.Output(INFO, defaultCallerDepth, msg)
}

// Warn logs warning message through DefaultLogger
func Warn(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(WARNING, defaultCallerDepth, msg)
}

// Warnf logs warning message through DefaultLogger
func Warnf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.Output(WARNING, defaultCallerDepth, msg)
}

// Error logs error message through DefaultLogger
func Error(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(ERROR, defaultCallerDepth, msg)
}

// Errorf logs error message through DefaultLogger
func Errorf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	DefaultLogger.Output(ERROR, defaultCallerDepth, msg)
}

// Fatal prints error message, it does not stop the program
func Fatal(v ...interface{}) {
	msg := fmt.Sprintln(v...)
	DefaultLogger.Output(FATAL, defaultCallerDepth, msg)
}
