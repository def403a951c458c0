package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the service. Every key can come from
// the environment (upper-cased), a .env file or an optional config.yaml.
type Config struct {
	AppEnv         string        `mapstructure:"app_env"`
	Port           int           `mapstructure:"port"`
	DatabaseURL    string        `mapstructure:"database_url"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTL         time.Duration `mapstructure:"jwt_ttl"`
	ServiceToken   string        `mapstructure:"service_token"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"`

	DuelSyncInterval time.Duration `mapstructure:"duel_sync_interval"`

	R2 R2Config `mapstructure:",squash"`
}

// R2Config holds the Cloudflare R2 credentials used to archive finished
// duels. Archiving is disabled when Bucket is empty.
type R2Config struct {
	AccountID       string `mapstructure:"cloudflare_account_id"`
	AccessKeyID     string `mapstructure:"r2_access_key_id"`
	AccessKeySecret string `mapstructure:"r2_access_key_secret"`
	Bucket          string `mapstructure:"r2_bucket_name"`
	CDNBaseURL      string `mapstructure:"cdn_base_url"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		AppEnv:           "production",
		Port:             5200,
		AllowedOrigins:   "http://localhost:3000",
		JWTTTL:           24 * time.Hour,
		LockTTL:          10 * time.Second,
		DuelSyncInterval: 5 * time.Minute,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("app_env", d.AppEnv)
	v.SetDefault("port", d.Port)
	v.SetDefault("database_url", "")
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", d.JWTTTL)
	v.SetDefault("service_token", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("lock_ttl", d.LockTTL)
	v.SetDefault("duel_sync_interval", d.DuelSyncInterval)
	v.SetDefault("cloudflare_account_id", "")
	v.SetDefault("r2_access_key_id", "")
	v.SetDefault("r2_access_key_secret", "")
	v.SetDefault("r2_bucket_name", "")
	v.SetDefault("cdn_base_url", "")
}

// Load reads .env (if present) into the process environment, then resolves
// the configuration through viper.
func Load(paths ...string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return load(viper.New(), paths...)
}

func load(v *viper.Viper, paths ...string) (Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.Port <= 0 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if c.DuelSyncInterval <= 0 {
		errs = append(errs, fmt.Errorf("invalid DUEL_SYNC_INTERVAL %s", c.DuelSyncInterval))
	}
	return errors.Join(errs...)
}

// Origins splits AllowedOrigins on commas and trims each entry.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
