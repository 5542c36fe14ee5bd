// Package config holds the application configuration, populated from
// environment variables once at startup and injected everywhere else.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"5000"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./database.db"`

	// Signed token credentials
	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTExpire time.Duration `env:"JWT_EXPIRE" envDefault:"720h"`

	// Email confirmation codes
	ConfirmCodeTTL time.Duration `env:"CONFIRM_CODE_TTL" envDefault:"15m"`

	// SMTP (optional; confirmation mail is skipped when no host is set)
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"noreply@sharpcut.app"`
	FromName     string `env:"FROM_NAME" envDefault:"Sharpcut Barbershop"`

	// Image storage
	S3Bucket             string `env:"S3_BUCKET,required"`
	S3Region             string `env:"S3_REGION" envDefault:"us-east-1"`
	ReferenceImageFolder string `env:"REFERENCE_IMAGE_FOLDER" envDefault:"barbershop/references"`
	ServiceImageFolder   string `env:"SERVICE_IMAGE_FOLDER" envDefault:"barbershop/services"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromAddress returns the mail sender in "Name <address>" form.
func (c *Config) FromAddress() string {
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromEmail)
}
