package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Info takes a pointer subLogger struct and string sends to the log output
func Info(sl *SubLogger, data string) {
	emit(sl, logrus.InfoLevel, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface sends to the log output
func Infoln(sl *SubLogger, v ...interface{}) {
	emit(sl, logrus.InfoLevel, func() string { return stageln(v...) })
}

// Infof takes a pointer subLogger struct, string and interface formats sends to the log output
func Infof(sl *SubLogger, data string, v ...interface{}) {
	emit(sl, logrus.InfoLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string sends to the log output
func Debug(sl *SubLogger, data string) {
	emit(sl, logrus.DebugLevel, func() string { return data })
}

// Debugln takes a pointer subLogger struct, string and interface sends to the log output
func Debugln(sl *SubLogger, v ...interface{}) {
	emit(sl, logrus.DebugLevel, func() string { return stageln(v...) })
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to the log output
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	emit(sl, logrus.DebugLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct & string and sends to the log output
func Warn(sl *SubLogger, data string) {
	emit(sl, logrus.WarnLevel, func() string { return data })
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to the log output
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	emit(sl, logrus.WarnLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct & interface formats and sends to the log output
func Error(sl *SubLogger, data string) {
	emit(sl, logrus.ErrorLevel, func() string { return data })
}

// Errorln takes a pointer subLogger struct, string & interface formats and sends to the log output
func Errorln(sl *SubLogger, v ...interface{}) {
	emit(sl, logrus.ErrorLevel, func() string { return stageln(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface formats and sends to the log output
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	emit(sl, logrus.ErrorLevel, func() string { return fmt.Sprintf(data, v...) })
}

// emit defers message formatting until the level is known to be enabled
func emit(sl *SubLogger, level logrus.Level, msg func() string) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if !sl.enabled(level) {
		return
	}
	entry := logrus.NewEntry(sl.logger)
	if showLogSystemName() {
		entry = entry.WithField("sublogger", sl.name)
	}
	entry.Log(level, msg())
}

func (sl *SubLogger) enabled(level logrus.Level) bool {
	switch level {
	case logrus.InfoLevel:
		return sl.levels.Info
	case logrus.DebugLevel:
		return sl.levels.Debug
	case logrus.WarnLevel:
		return sl.levels.Warn
	case logrus.ErrorLevel:
		return sl.levels.Error
	}
	return false
}

func showLogSystemName() bool {
	s := globalLogConfig.AdvancedSettings.ShowLogSystemName
	return s != nil && *s
}

// stageln formats like Sprintln, operands always space separated, without the
// trailing newline
func stageln(v ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(v...), "\n")
}
