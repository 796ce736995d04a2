package log

import (
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	// DefaultMaxFileSize for logger rotation file in megabytes
	DefaultMaxFileSize = 100
	defaultLevels      = "INFO|WARN|ERROR"
	allLevels          = "INFO|DEBUG|WARN|ERROR"
)

var (
	// globalLogConfig holds global configuration options for logger
	globalLogConfig = GenDefaultSettings()
	// fileOutput is shared by every sub logger writing to "file"
	fileOutput *fileWriter

	// read/write mutex for logger
	mu = &sync.RWMutex{}
)

// Config holds configuration settings loaded from the client config
type Config struct {
	Enabled          *bool `json:"enabled" mapstructure:"enabled"`
	SubLoggerConfig  `mapstructure:",squash"`
	LoggerFileConfig *FileConfig       `json:"fileSettings,omitempty" mapstructure:"fileSettings"`
	AdvancedSettings AdvancedSettings  `json:"advancedSettings" mapstructure:"advancedSettings"`
	SubLoggers       []SubLoggerConfig `json:"subloggers,omitempty" mapstructure:"subloggers"`
}

// AdvancedSettings holds formatting options
type AdvancedSettings struct {
	ShowLogSystemName *bool  `json:"showLogSystemName" mapstructure:"showLogSystemName"`
	TimeStampFormat   string `json:"timeStampFormat" mapstructure:"timeStampFormat"`
	StructuredLogging bool   `json:"structuredLogging" mapstructure:"structuredLogging"`
}

// SubLoggerConfig holds sub logger configuration settings loaded from config
type SubLoggerConfig struct {
	Name   string `json:"name,omitempty" mapstructure:"name"`
	Level  string `json:"level" mapstructure:"level"`
	Output string `json:"output" mapstructure:"output"`
}

// FileConfig holds log file settings. MaxSize is in megabytes.
type FileConfig struct {
	FileName   string `json:"filename,omitempty" mapstructure:"filename"`
	Rotate     *bool  `json:"rotate,omitempty" mapstructure:"rotate"`
	MaxSize    int    `json:"maxsize,omitempty" mapstructure:"maxsize"`
	MaxBackups int    `json:"maxbackups,omitempty" mapstructure:"maxbackups"`
	MaxAge     int    `json:"maxage,omitempty" mapstructure:"maxage"`
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

// SubLogger defines a sub logger that can be used externally for packages
// wanting to leverage GCT library logger features
type SubLogger struct {
	name   string
	levels Levels
	logger *logrus.Logger
}
