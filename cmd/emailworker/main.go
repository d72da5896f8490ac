// Command emailworker delivers emails published by the identity server to AMQP queue.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nkiryanov/identity/internal/logger"
	"github.com/nkiryanov/identity/internal/service/notify"
)

type Config struct {
	AMQPURL   string
	AMQPQueue string

	MailgunDomain string
	MailgunAPIKey string
	MailgunSender  string
	MailgunAPIBase string

	LogLevel    string
	Environment string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Getenv, os.Args[1:]); err != nil {
		slog.Error("email worker stopped with error", "error", err.Error())
		os.Exit(1)
	}
}

func loadConfig(getenv func(string) string, args []string) (*Config, error) {
	withDefault := func(key string, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	c := &Config{}
	fs := pflag.NewFlagSet("emailworker", pflag.ContinueOnError)
	fs.StringVar(&c.AMQPURL, "amqp-url", getenv("AMQP_URL"), "AMQP broker url")
	fs.StringVar(&c.AMQPQueue, "amqp-queue", withDefault("AMQP_EMAIL_QUEUE", notify.DefaultEmailQueue), "AMQP queue for emails")
	fs.StringVar(&c.MailgunDomain, "mailgun-domain", getenv("MAILGUN_DOMAIN"), "Mailgun domain")
	fs.StringVar(&c.MailgunAPIKey, "mailgun-api-key", getenv("MAILGUN_API_KEY"), "Mailgun API key")
	fs.StringVar(&c.MailgunSender, "mailgun-sender", getenv("MAILGUN_SENDER"), "Mailgun 'from' address")
	fs.StringVar(&c.MailgunAPIBase, "mailgun-api-base", getenv("MAILGUN_API_BASE"), "Mailgun API base url")
	fs.StringVarP(&c.LogLevel, "log-level", "l", withDefault("LOG_LEVEL", logger.LevelInfo), "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", withDefault("ENVIRONMENT", logger.EnvProd), "Environment (dev, prod)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case c.AMQPURL == "":
		return nil, errors.New("amqp url is required")
	case c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "":
		return nil, errors.New("mailgun domain, api key and sender are required")
	}
	return c, nil
}

func run(ctx context.Context, getenv func(string) string, args []string) error {
	c, err := loadConfig(getenv, args)
	if err != nil {
		return fmt.Errorf("invalid configuration. Err: %w", err)
	}

	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return err
	}

	sender := notify.NewMailgunSender(c.MailgunDomain, c.MailgunAPIKey, c.MailgunSender)
	if c.MailgunAPIBase != "" {
		sender.SetAPIBase(c.MailgunAPIBase)
	}
	return notify.Consume(ctx, c.AMQPURL, c.AMQPQueue, sender, log)
}
