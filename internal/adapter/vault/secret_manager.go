package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/pkg/config"
)

const mount = "secret"

// SecretManager reads service secrets from a Vault KV v2 engine.
type SecretManager struct {
	client *api.Client
	path   string
	log    *zap.Logger
}

func NewSecretManager(address, token, path string, log *zap.Logger) (*SecretManager, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(token)

	return &SecretManager{client: client, path: path, log: log}, nil
}

// Read returns the string value of key in secret name, "" when either is
// missing.
func (sm *SecretManager) Read(ctx context.Context, name, key string) (string, error) {
	secret, err := sm.client.KVv2(mount).Get(ctx, sm.path+"/"+name)
	if err != nil {
		if errors.Is(err, api.ErrSecretNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read secret %s: %w", name, err)
	}
	value, _ := secret.Data[key].(string)
	return value, nil
}

// Apply overrides cfg with the secrets present in Vault. Absent secrets keep
// the configured values.
func (sm *SecretManager) Apply(ctx context.Context, cfg *config.Config) error {
	overrides := []struct {
		name, key string
		target    *string
	}{
		{"database", "connection_string", &cfg.Database.URL},
		{"jwt", "secret", &cfg.JWT.Secret},
		{"sendgrid", "api_key", &cfg.Email.SendGridAPIKey},
		{"smtp", "password", &cfg.Email.SMTPPassword},
	}

	for _, o := range overrides {
		value, err := sm.Read(ctx, o.name, o.key)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		*o.target = value
		sm.log.Info("Secret loaded from vault", zap.String("secret", o.name))
	}
	return nil
}
