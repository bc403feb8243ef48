package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	GRPC           GRPCConfig           `mapstructure:"grpc"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Queue          QueueConfig          `mapstructure:"queue"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Admin          AdminConfig          `mapstructure:"admin"`
	Email          EmailConfig          `mapstructure:"email"`
	Storage        StorageConfig        `mapstructure:"storage"`
	Registration   RegistrationConfig   `mapstructure:"registration"`
	External       ExternalConfig       `mapstructure:"external"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Vault          VaultConfig          `mapstructure:"vault"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	RateLimiting   RateLimitingConfig   `mapstructure:"rate_limiting"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	CORS           CORSConfig           `mapstructure:"cors"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"`
}

type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// QueueConfig selects the event broker. Driver is nats, rabbitmq or memory.
type QueueConfig struct {
	Driver      string `mapstructure:"driver"`
	NATSURL     string `mapstructure:"nats_url"`
	RabbitMQURL string `mapstructure:"rabbitmq_url"`
}

// URL returns the connection URL of the selected driver.
func (c QueueConfig) URL() string {
	switch c.Driver {
	case "rabbitmq":
		return c.RabbitMQURL
	case "nats":
		return c.NATSURL
	default:
		return ""
	}
}

type JWTConfig struct {
	Secret              string        `mapstructure:"secret"`
	Issuer              string        `mapstructure:"issuer"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration"`
}

// AdminConfig seeds the first administrator on startup.
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type EmailConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Provider       string        `mapstructure:"provider"`
	From           string        `mapstructure:"from"`
	FromName       string        `mapstructure:"from_name"`
	SendGridAPIKey string        `mapstructure:"sendgrid_api_key"`
	SMTPHost       string        `mapstructure:"smtp_host"`
	SMTPPort       int           `mapstructure:"smtp_port"`
	SMTPUsername   string        `mapstructure:"smtp_username"`
	SMTPPassword   string        `mapstructure:"smtp_password"`
	SMTPUseTLS     bool          `mapstructure:"smtp_use_tls"`
	AdminAddress   string        `mapstructure:"admin_address"`
	FrontendURL    string        `mapstructure:"frontend_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	UploadDir       string `mapstructure:"upload_dir"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	MaxDocumentSize int64  `mapstructure:"max_document_size"`
	MaxImageSize    int64  `mapstructure:"max_image_size"`
}

type RegistrationConfig struct {
	StrictCNPJ bool `mapstructure:"strict_cnpj"`
	VerifyCNPJ bool `mapstructure:"verify_cnpj"`
}

type ExternalConfig struct {
	ReceitaWSURL string        `mapstructure:"receitaws_url"`
	BrasilAPIURL string        `mapstructure:"brasilapi_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	StatisticsTTL time.Duration `mapstructure:"statistics_ttl"`
	CNPJTTL       time.Duration `mapstructure:"cnpj_ttl"`
	BanksTTL      time.Duration `mapstructure:"banks_ttl"`
}

type VaultConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Token   string `mapstructure:"token"`
	Path    string `mapstructure:"path"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type RateLimitingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
	Credentials    bool     `mapstructure:"credentials"`
}
