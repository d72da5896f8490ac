package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/identity/internal/logger"
	"github.com/nkiryanov/identity/internal/service/auth"
	"github.com/nkiryanov/identity/internal/service/notify"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Email senders
const (
	SenderLog     = "log"
	SenderAMQP    = "amqp"
	SenderMailgun = "mailgun"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProd
	defaultStorage      = StoragePostgres
	defaultTokenTTL     = 15 * time.Minute
	defaultEmailSender  = SenderLog
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the identity service will be run
	ListenAddr string

	// Where users are stored: postgres or redis
	Storage string

	// Database to connect to
	DatabaseDSN string

	// Redis to connect to, e.g. redis://localhost:6379/0
	RedisURL string

	// Secret key
	// Some internal parts (like signing JWT tokens) uses symmetric encryption, so this key is used for that purpose
	SecretKey string

	// Access token lifetime
	TokenTTL time.Duration

	// Password hasher: bcrypt or argon2
	Hasher string

	// Welcome email delivery: log, amqp or mailgun
	EmailSender string

	AMQPURL   string
	AMQPQueue string

	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// Empty means Mailgun default (US region)
	MailgunAPIBase string

	// Environment
	Environment string

	// Remove all users on start. For development only
	Reset bool
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Storage:     defaultStorage,
		TokenTTL:    defaultTokenTTL,
		Hasher:      auth.HasherBcrypt,
		EmailSender: defaultEmailSender,
		AMQPQueue:   notify.DefaultEmailQueue,
		Environment: defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}
	setBool := func(o *bool) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*o = b
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":      setString(&c.ListenAddr),
		"STORAGE":          setString(&c.Storage),
		"DATABASE_URI":     setString(&c.DatabaseDSN),
		"REDIS_URL":        setString(&c.RedisURL),
		"SECRET_KEY":       setString(&c.SecretKey),
		"TOKEN_TTL":        setDuration(&c.TokenTTL),
		"HASHER":           setString(&c.Hasher),
		"EMAIL_SENDER":     setString(&c.EmailSender),
		"AMQP_URL":         setString(&c.AMQPURL),
		"AMQP_EMAIL_QUEUE": setString(&c.AMQPQueue),
		"MAILGUN_DOMAIN":   setString(&c.MailgunDomain),
		"MAILGUN_API_KEY":  setString(&c.MailgunAPIKey),
		"MAILGUN_SENDER":   setString(&c.MailgunSender),
		"MAILGUN_API_BASE": setString(&c.MailgunAPIBase),
		"LOG_LEVEL":        setString(&c.LogLevel),
		"ENVIRONMENT":      setString(&c.Environment),
		"RESET":            setBool(&c.Reset),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s. Err: %w", key, err)
		}
	}
	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("identity", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.Storage, "storage", "b", c.Storage, "Storage backend (postgres, redis)")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.RedisURL, "redis", "R", c.RedisURL, "Redis connection url")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.DurationVarP(&c.TokenTTL, "token-ttl", "t", c.TokenTTL, "Access token lifetime")
	fs.StringVarP(&c.Hasher, "hasher", "H", c.Hasher, "Password hasher (bcrypt, argon2)")
	fs.StringVarP(&c.EmailSender, "email-sender", "m", c.EmailSender, "Email sender (log, amqp, mailgun)")
	fs.StringVar(&c.AMQPURL, "amqp-url", c.AMQPURL, "AMQP broker url")
	fs.StringVar(&c.AMQPQueue, "amqp-queue", c.AMQPQueue, "AMQP queue for emails")
	fs.StringVar(&c.MailgunDomain, "mailgun-domain", c.MailgunDomain, "Mailgun domain")
	fs.StringVar(&c.MailgunAPIKey, "mailgun-api-key", c.MailgunAPIKey, "Mailgun API key")
	fs.StringVar(&c.MailgunSender, "mailgun-sender", c.MailgunSender, "Mailgun 'from' address")
	fs.StringVar(&c.MailgunAPIBase, "mailgun-api-base", c.MailgunAPIBase, "Mailgun API base url")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.BoolVar(&c.Reset, "reset", c.Reset, "Remove all users on start")

	return fs.Parse(args)
}

// Check options required by selected storage and email sender
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}

	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("database uri is required for postgres storage"))
		}
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis url is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}

	switch c.EmailSender {
	case SenderLog:
	case SenderAMQP:
		if c.AMQPURL == "" {
			errs = append(errs, errors.New("amqp url is required for amqp email sender"))
		}
	case SenderMailgun:
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "" {
			errs = append(errs, errors.New("mailgun domain, api key and sender are required for mailgun email sender"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown email sender %q", c.EmailSender))
	}

	if c.Reset && c.Environment != logger.EnvDev {
		errs = append(errs, errors.New("reset allowed in dev environment only"))
	}

	return errors.Join(errs...)
}
