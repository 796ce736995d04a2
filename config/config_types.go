package config

import (
	"errors"
	"time"

	"github.com/upbitdev/goupbit/log"
)

// Constants declared here are filename strings and defaults
const (
	File                  = "config.json"
	EnvPrefix             = "UPBIT"
	DefaultExchangeName   = "Upbit"
	DefaultPublicURL      = "https://upbit.org/data/public/v1"
	DefaultPrivateURL     = "http://api.upbit.loc"
	DefaultPublicTimeout  = 10 * time.Second
	DefaultPrivateTimeout = 30 * time.Second
	DefaultUserAgent      = "goupbit/1.0"
)

// Constants here define unset default values displayed in the config.json
// file
const (
	DefaultUnsetAPIKey    = "Key"
	DefaultUnsetAPISecret = "Secret"
)

// Constants here hold some messages
const (
	WarningExchangeAuthAPIDefaultOrEmptyValues = "exchange %s authenticated API support disabled due to default/empty APIKey/Secret values"
	WarningInsecureSkipVerify                  = "exchange %s TLS certificate verification is DISABLED, requests and credentials can be intercepted"
)

var (
	errNegativeStartNonce = errors.New("start nonce cannot be negative")
	errInvalidTimeout     = errors.New("timeout must be greater than zero")
	errConfigIsNil        = errors.New("config is nil")
)

// Config is the overarching object that holds the exchange client and
// logging settings
type Config struct {
	Name     string         `json:"name" mapstructure:"name"`
	Exchange ExchangeConfig `json:"exchange" mapstructure:"exchange"`
	Logging  log.Config     `json:"logging" mapstructure:"logging"`
}

// ExchangeConfig holds the settings needed to build an exchange client
type ExchangeConfig struct {
	Name                    string        `json:"name" mapstructure:"name"`
	APIKey                  string        `json:"apiKey" mapstructure:"apiKey"`
	APISecret               string        `json:"apiSecret" mapstructure:"apiSecret"`
	StartNonce              int64         `json:"startNonce" mapstructure:"startNonce"`
	AuthenticatedAPISupport bool          `json:"authenticatedApiSupport" mapstructure:"authenticatedApiSupport"`
	PublicURL               string        `json:"publicUrl" mapstructure:"publicUrl"`
	PrivateURL              string        `json:"privateUrl" mapstructure:"privateUrl"`
	InsecureSkipVerify      bool          `json:"insecureSkipVerify" mapstructure:"insecureSkipVerify"`
	PublicTimeout           time.Duration `json:"publicTimeout" mapstructure:"publicTimeout"`
	PrivateTimeout          time.Duration `json:"privateTimeout" mapstructure:"privateTimeout"`
	OmitNullParameters      bool          `json:"omitNullParameters" mapstructure:"omitNullParameters"`
	UserAgent               string        `json:"userAgent" mapstructure:"userAgent"`
	Verbose                 bool          `json:"verbose" mapstructure:"verbose"`
	HTTPDebugging           bool          `json:"httpDebugging" mapstructure:"httpDebugging"`
}
