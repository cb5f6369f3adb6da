package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose  bool           `mapstructure:"verbose"`
	Config   string         `mapstructure:"config"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"omitempty"`
	SMTP     SMTPConfig     `mapstructure:"smtp" validate:"omitempty"`
}

// ServerConfig holds MCP server identity settings
type ServerConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// DatabaseConfig holds PostgreSQL connection settings. Either URL or the
// discrete host/port/user/password/name parameters must be provided.
type DatabaseConfig struct {
	URL      string `mapstructure:"url" validate:"omitempty"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	// MinConns and MaxConns bound the connection pool size.
	MinConns int32 `mapstructure:"minConns" validate:"omitempty,min=1"`
	MaxConns int32 `mapstructure:"maxConns" validate:"omitempty,min=1"`
	// StatementTimeoutSeconds applies a server-side statement_timeout to every
	// pooled connection. Zero disables it.
	StatementTimeoutSeconds int `mapstructure:"statementTimeoutSeconds" validate:"omitempty,min=1"`
	// AcquireTimeoutSeconds bounds how long a caller waits for a free
	// connection when the pool is exhausted. Zero means wait indefinitely.
	AcquireTimeoutSeconds int `mapstructure:"acquireTimeoutSeconds" validate:"omitempty,min=1"`
}

// LLMConfig holds configuration for the report text-generation provider
type LLMConfig struct {
	Provider  string `mapstructure:"provider" validate:"omitempty,oneof=openai"`
	ModelName string `mapstructure:"modelName" validate:"omitempty,min=1"`
	APIKey    string `mapstructure:"apiKey" validate:"omitempty,min=1"`
	// RequestTimeoutSeconds controls the HTTP client timeout for LLM calls
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"omitempty,min=5,max=600"`
	// Debug enables extra request/response logging within the LLM provider
	Debug bool `mapstructure:"debug"`
}

// SMTPConfig holds settings for the report email dispatcher
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"omitempty,min=3"`
	// TimeoutSeconds bounds the SMTP dial and send
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"omitempty,min=1"`
}
