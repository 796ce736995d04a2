package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/upbitdev/goupbit/common"
	"github.com/upbitdev/goupbit/log"
)

// GetDefaultConfig returns a config populated with the default endpoints,
// timeouts and logging settings and no credentials
func GetDefaultConfig() *Config {
	return &Config{
		Name: DefaultExchangeName,
		Exchange: ExchangeConfig{
			Name:                    DefaultExchangeName,
			AuthenticatedAPISupport: true,
			PublicURL:               DefaultPublicURL,
			PrivateURL:              DefaultPrivateURL,
			PublicTimeout:           DefaultPublicTimeout,
			PrivateTimeout:          DefaultPrivateTimeout,
			UserAgent:               DefaultUserAgent,
		},
		Logging: log.GenDefaultSettings(),
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("name", d.Name)
	v.SetDefault("exchange.name", d.Exchange.Name)
	v.SetDefault("exchange.apiKey", "")
	v.SetDefault("exchange.apiSecret", "")
	v.SetDefault("exchange.startNonce", 0)
	v.SetDefault("exchange.authenticatedApiSupport", true)
	v.SetDefault("exchange.publicUrl", d.Exchange.PublicURL)
	v.SetDefault("exchange.privateUrl", d.Exchange.PrivateURL)
	v.SetDefault("exchange.insecureSkipVerify", false)
	v.SetDefault("exchange.publicTimeout", d.Exchange.PublicTimeout)
	v.SetDefault("exchange.privateTimeout", d.Exchange.PrivateTimeout)
	v.SetDefault("exchange.omitNullParameters", false)
	v.SetDefault("exchange.userAgent", d.Exchange.UserAgent)
	v.SetDefault("exchange.verbose", false)
	v.SetDefault("exchange.httpDebugging", false)
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.output", d.Logging.Output)
}

// LoadConfig loads the configuration file at path, if any, then applies
// UPBIT_ prefixed environment overrides, for example UPBIT_EXCHANGE_APIKEY.
// The result is validated with CheckConfig.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("fatal error opening %s file: %w", path, err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("fatal error decoding %s file: %w", path, err)
	}
	if err := c.CheckConfig(); err != nil {
		return nil, fmt.Errorf("fatal error checking config values: %w", err)
	}
	return c, nil
}

// CheckConfig fills unset values with defaults and validates the rest
func (c *Config) CheckConfig() error {
	if c == nil {
		return errConfigIsNil
	}
	if c.Name == "" {
		c.Name = DefaultExchangeName
	}
	c.CheckLoggerConfig()
	return c.Exchange.CheckExchangeConfig()
}

// CheckLoggerConfig fills any unset logger values with the defaults
func (c *Config) CheckLoggerConfig() {
	d := log.GenDefaultSettings()
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = d.Enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Level
	}
	if c.Logging.Output == "" {
		c.Logging.Output = d.Output
	}
	if c.Logging.LoggerFileConfig == nil {
		c.Logging.LoggerFileConfig = d.LoggerFileConfig
	}
	if c.Logging.AdvancedSettings.ShowLogSystemName == nil {
		c.Logging.AdvancedSettings.ShowLogSystemName = d.AdvancedSettings.ShowLogSystemName
	}
	if c.Logging.AdvancedSettings.TimeStampFormat == "" {
		c.Logging.AdvancedSettings.TimeStampFormat = d.AdvancedSettings.TimeStampFormat
	}
}

// CheckExchangeConfig fills unset exchange values with defaults, validates
// URLs and timeouts and disables authenticated support when credentials are
// missing or left at their placeholder values
func (e *ExchangeConfig) CheckExchangeConfig() error {
	if e.Name == "" {
		e.Name = DefaultExchangeName
	}
	if e.PublicURL == "" {
		e.PublicURL = DefaultPublicURL
	}
	if e.PrivateURL == "" {
		e.PrivateURL = DefaultPrivateURL
	}
	if e.UserAgent == "" {
		e.UserAgent = DefaultUserAgent
	}
	if e.PublicTimeout == 0 {
		e.PublicTimeout = DefaultPublicTimeout
	}
	if e.PrivateTimeout == 0 {
		e.PrivateTimeout = DefaultPrivateTimeout
	}
	if e.PublicTimeout < 0 || e.PrivateTimeout < 0 {
		return fmt.Errorf("exchange %s: %w", e.Name, errInvalidTimeout)
	}
	if e.StartNonce < 0 {
		return fmt.Errorf("exchange %s: %w", e.Name, errNegativeStartNonce)
	}

	var err error
	if e.PublicURL, err = common.CheckURL(e.PublicURL); err != nil {
		return fmt.Errorf("exchange %s public URL: %w", e.Name, err)
	}
	if e.PrivateURL, err = common.CheckURL(e.PrivateURL); err != nil {
		return fmt.Errorf("exchange %s private URL: %w", e.Name, err)
	}

	if e.AuthenticatedAPISupport && !e.HasCredentials() {
		e.AuthenticatedAPISupport = false
		log.Warnf(log.ConfigMgr, WarningExchangeAuthAPIDefaultOrEmptyValues, e.Name)
	}
	return nil
}

// HasCredentials reports whether both the API key and secret are set to
// non-placeholder values
func (e *ExchangeConfig) HasCredentials() bool {
	return e.APIKey != "" && e.APIKey != DefaultUnsetAPIKey &&
		e.APISecret != "" && e.APISecret != DefaultUnsetAPISecret
}
