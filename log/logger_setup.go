package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errFileLoggingNotSetup   = errors.New("file output requested but file settings are missing")
	errSubLoggerNotFound     = errors.New("sub logger not found")
)

// fileWriter is the shared log file, rotated by lumberjack when enabled
type fileWriter struct {
	io.WriteCloser
	name string
}

func boolPtr(b bool) *bool { return &b }

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: boolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  defaultLevels,
			Output: "console",
		},
		LoggerFileConfig: &FileConfig{
			FileName: "upbit.log",
			Rotate:   boolPtr(false),
			MaxSize:  DefaultMaxFileSize,
		},
		AdvancedSettings: AdvancedSettings{
			ShowLogSystemName: boolPtr(true),
			TimeStampFormat:   timestampFormat,
		},
	}
}

func openFile(c *FileConfig) (*fileWriter, error) {
	if c == nil || c.FileName == "" {
		return nil, errFileLoggingNotSetup
	}
	if err := os.MkdirAll(filepath.Dir(c.FileName), 0o770); err != nil {
		return nil, err
	}
	if c.Rotate != nil && *c.Rotate {
		maxSize := c.MaxSize
		if maxSize <= 0 {
			maxSize = DefaultMaxFileSize
		}
		return &fileWriter{
			name: c.FileName,
			WriteCloser: &lumberjack.Logger{
				Filename:   c.FileName,
				MaxSize:    maxSize,
				MaxBackups: c.MaxBackups,
				MaxAge:     c.MaxAge,
			},
		}, nil
	}
	f, err := os.OpenFile(c.FileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &fileWriter{name: c.FileName, WriteCloser: f}, nil
}

func getWriters(s *SubLoggerConfig, file *fileWriter) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	outputWriters := strings.Split(s.Output, "|")
	writers := make([]io.Writer, 0, len(outputWriters))
	for x := range outputWriters {
		switch strings.ToLower(strings.TrimSpace(outputWriters[x])) {
		case "stdout", "console":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		case "file":
			if file == nil {
				return nil, errFileLoggingNotSetup
			}
			writers = append(writers, file)
		case "":
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
	}
	switch len(writers) {
	case 0:
		return io.Discard, nil
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func newFormatter(a *AdvancedSettings) logrus.Formatter {
	format := a.TimeStampFormat
	if format == "" {
		format = timestampFormat
	}
	if a.StructuredLogging {
		return &logrus.JSONFormatter{TimestampFormat: format}
	}
	return &logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  format,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	}
}

// SetupGlobalLogger applies c to every registered sub logger and then any
// per sub logger overrides listed in c.SubLoggers. On error the previous
// settings, including an open log file, stay in effect.
func SetupGlobalLogger(c *Config) error {
	if c == nil {
		return errSubloggerConfigIsNil
	}
	mu.Lock()
	defer mu.Unlock()

	var file *fileWriter
	if strings.Contains(strings.ToLower(c.Output), "file") || subLoggersUseFile(c.SubLoggers) {
		f, err := openFile(c.LoggerFileConfig)
		if err != nil {
			return err
		}
		file = f
	}
	discard := func(err error) error {
		if file != nil {
			_ = file.Close()
		}
		return err
	}

	output, err := getWriters(&c.SubLoggerConfig, file)
	if err != nil {
		return discard(err)
	}
	overrides := make(map[*SubLogger]io.Writer, len(c.SubLoggers))
	for x := range c.SubLoggers {
		sl, ok := subLoggers[strings.ToUpper(c.SubLoggers[x].Name)]
		if !ok {
			return discard(fmt.Errorf("%w: %s", errSubLoggerNotFound, c.SubLoggers[x].Name))
		}
		out, err := getWriters(&c.SubLoggers[x], file)
		if err != nil {
			return discard(err)
		}
		overrides[sl] = out
	}

	previous := fileOutput
	fileOutput = file
	globalLogConfig = *c
	enabled := c.Enabled == nil || *c.Enabled
	formatter := newFormatter(&c.AdvancedSettings)
	for _, sl := range subLoggers {
		sl.logger.SetOutput(output)
		sl.logger.SetFormatter(formatter)
		sl.levels = splitLevel(c.Level)
		if !enabled {
			sl.levels = Levels{}
		}
	}
	for x := range c.SubLoggers {
		sl := subLoggers[strings.ToUpper(c.SubLoggers[x].Name)]
		sl.logger.SetOutput(overrides[sl])
		if enabled {
			sl.levels = splitLevel(c.SubLoggers[x].Level)
		}
	}

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// CloseLogger releases the log file when file output is in use
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if fileOutput == nil {
		return nil
	}
	err := fileOutput.Close()
	fileOutput = nil
	return err
}

func subLoggersUseFile(s []SubLoggerConfig) bool {
	for x := range s {
		if strings.Contains(strings.ToLower(s[x].Output), "file") {
			return true
		}
	}
	return false
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(strings.TrimSpace(enabledLevels[x])) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(newFormatter(&globalLogConfig.AdvancedSettings))
	temp := &SubLogger{
		name:   strings.ToUpper(subLogger),
		levels: splitLevel(defaultLevels),
		logger: l,
	}
	subLoggers[temp.name] = temp
	return temp
}
