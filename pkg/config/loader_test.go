package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Queue.Driver != "memory" || cfg.Queue.URL() != "" {
		t.Errorf("expected in-process queue by default, got %+v", cfg.Queue)
	}
	if cfg.Cache.StatisticsTTL != 5*time.Minute {
		t.Errorf("expected statistics ttl 5m, got %s", cfg.Cache.StatisticsTTL)
	}
	if cfg.Storage.MaxImageSize != 5*1024*1024 {
		t.Errorf("unexpected max image size %d", cfg.Storage.MaxImageSize)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("APP_QUEUE_DRIVER", "nats")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("APP_REGISTRATION_STRICT_CNPJ", "true")

	cfg, err := Load()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Database.URL != "postgres://env/db" {
		t.Errorf("DATABASE_URL not applied: %s", cfg.Database.URL)
	}
	if cfg.JWT.Secret != "from-env" || cfg.Email.SendGridAPIKey != "SG.key" {
		t.Errorf("secrets not applied: %+v %+v", cfg.JWT, cfg.Email)
	}
	if cfg.Queue.URL() != "nats://broker:4222" {
		t.Errorf("expected nats url from env, got %s", cfg.Queue.URL())
	}
	if !cfg.Registration.StrictCNPJ {
		t.Error("APP_ prefixed key not applied")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := []byte("http:\n  port: 9090\nemail:\n  provider: smtp\n  smtp_host: mail.local\n")
	if err := os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Email.Provider != "smtp" || cfg.Email.SMTPHost != "mail.local" {
		t.Errorf("config file not applied: %+v %+v", cfg.HTTP, cfg.Email)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		v := viper.New()
		SetDefaults(v)
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			t.Fatal(err)
		}
		return &cfg
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate, got %v", err)
	}

	cfg = base()
	cfg.App.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for the development secret in production")
	}

	cfg = base()
	cfg.Queue.Driver = "kafka"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown queue driver")
	}
}
