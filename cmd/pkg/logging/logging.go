package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// writerHook рассылает каждую запись во все подключенные writer'ы
type writerHook struct {
	Writer    []io.Writer
	LogLevels []logrus.Level
}

func (hook *writerHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	for _, w := range hook.Writer {
		if _, err := w.Write([]byte(line)); err != nil {
			return err
		}
	}
	return nil
}

func (hook *writerHook) Levels() []logrus.Level {
	return hook.LogLevels
}

var e *logrus.Entry

// Logger - обертка над logrus.Entry, которую сервисы получают через конструкторы
type Logger struct {
	*logrus.Entry
}

// GetLogger возвращает корневой логгер приложения
func GetLogger() *Logger {
	return &Logger{e}
}

// NewLogger оборачивает произвольный entry (используется в тестах с hooks/test)
func NewLogger(entry *logrus.Entry) *Logger {
	return &Logger{entry}
}

// GetLoggerWithField возвращает дочерний логгер с дополнительным полем
func (l *Logger) GetLoggerWithField(k string, v interface{}) *Logger {
	return &Logger{l.WithField(k, v)}
}

func init() {
	l := logrus.New()
	l.SetReportCaller(true)
	l.Formatter = &logrus.TextFormatter{
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			filename := path.Base(frame.File)
			return fmt.Sprintf("%s()", frame.Function), fmt.Sprintf("%s:%d", filename, frame.Line)
		},
		DisableColors: false,
		FullTimestamp: true,
	}

	writers := []io.Writer{os.Stdout}

	// Файловый лог включается только если задан LOG_DIR
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "не удалось создать каталог логов %s: %v\n", dir, err)
		} else {
			allFile, err := os.OpenFile(filepath.Join(dir, "all.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
			if err != nil {
				fmt.Fprintf(os.Stderr, "не удалось открыть файл логов: %v\n", err)
			} else {
				writers = append(writers, allFile)
			}
		}
	}

	l.SetOutput(io.Discard)
	l.AddHook(&writerHook{
		Writer:    writers,
		LogLevels: logrus.AllLevels,
	})

	level := logrus.TraceLevel
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = lvl
	}
	l.SetLevel(level)

	e = logrus.NewEntry(l)
}
