package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSOrigins lists the browser origins allowed to call the API (the SPA dev server by default).
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=sqlite3 pgx"`
	DSN          string `mapstructure:"dsn" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	// AllowAdminSignup permits role "admin" in public registration requests.
	AllowAdminSignup bool `mapstructure:"allow_admin_signup"`
}

// EffectiveMaxOpenConns returns the configured pool size, or a driver default
// when unset. SQLite allows a single writer, so it gets one connection.
func (c DatabaseConfig) EffectiveMaxOpenConns() int {
	if c.MaxOpenConns > 0 {
		return c.MaxOpenConns
	}
	if c.Driver == "sqlite3" {
		return 1
	}
	return 10
}
