// SPDX-License-Identifier: GPL-3.0-or-later
package log

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu       sync.RWMutex
	loggers  map[string]*logrus.Logger
	initOnce sync.Once
)

func NewPrefixLogger(prefix string) *PrefixLogger {
	stringPrefix := fmt.Sprintf("%s:\t", prefix)

	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.DisableColors = strings.Contains(runtime.GOOS, "windows")
	return &PrefixLogger{
		formatter,
		[]byte(stringPrefix),
	}
}

type PrefixLogger struct {
	formatter logrus.Formatter
	prefix    []byte
}

func (f *PrefixLogger) Format(entry *logrus.Entry) ([]byte, error) {
	text, err := f.formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	return append(f.prefix, text...), nil
}

const (
	LOG_MAIN        = "MA"
	LOG_INGEST      = "IN"
	LOG_MAILBOX     = "MB"
	LOG_PERSISTENCE = "PI"
	LOG_EXTRACTION  = "EX"
	LOG_RECONCILE   = "RC"
	LOG_SENDER      = "SM"
)

var prefixes = []string{
	LOG_MAIN,
	LOG_INGEST,
	LOG_MAILBOX,
	LOG_PERSISTENCE,
	LOG_EXTRACTION,
	LOG_RECONCILE,
	LOG_SENDER,
}

func getLevel(loglevel string) logrus.Level {
	switch strings.ToLower(loglevel) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "panic":
		return logrus.PanicLevel
	case "fatal":
		return logrus.FatalLevel
	}

	// Info is default
	return logrus.InfoLevel
}

func newLoggers(loglevel string) map[string]*logrus.Logger {
	l := make(map[string]*logrus.Logger, len(prefixes))
	for _, prefix := range prefixes {
		l[prefix] = logrus.New()
		l[prefix].Level = getLevel(loglevel)
		l[prefix].Formatter = NewPrefixLogger(prefix)
	}
	return l
}

func InitLogging(loglevel string) {
	l := newLoggers(loglevel)
	// an explicit init wins over the lazy one in Logger
	initOnce.Do(func() {})

	mu.Lock()
	loggers = l
	mu.Unlock()
}

func SetLogLevel(loglevel string) {
	mu.RLock()
	defer mu.RUnlock()

	for _, v := range loggers {
		v.SetLevel(getLevel(loglevel))
	}
}

// Logger returns the logger for a component prefix. Logging is initialised with the
// info level on first use so packages can be used without an explicit InitLogging.
func Logger(logger string) *logrus.Logger {
	initOnce.Do(func() {
		l := newLoggers("info")
		mu.Lock()
		loggers = l
		mu.Unlock()
	})

	mu.RLock()
	l, ok := loggers[logger]
	mu.RUnlock()
	if !ok {
		panic("Logger " + logger + " unknown")
	}

	return l
}

// Truncate shortens free text before it is logged.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
