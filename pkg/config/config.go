package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Export   ExportConfig
	SMTP     SMTPConfig
	Mail     MailConfig
}

// DatabaseConfig selects the record store. SQLite uses Path, PostgreSQL the network fields.
type DatabaseConfig struct {
	Driver       string
	Path         string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig holds the single operator account. PasswordHash wins over Password.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	BcryptCost   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig controls where spreadsheet snapshots land and how they are laid out.
type ExportConfig struct {
	Dir             string
	Filename        string
	SheetName       string
	Direction       string
	CSVWithBOM      bool
	PDFFontPath     string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// SMTPConfig points at the outbound relay. Credentials are supplied per send.
type SMTPConfig struct {
	Host       string
	Port       int
	Timeout    time.Duration
	RequireTLS bool
}

// MailConfig carries the default message content.
type MailConfig struct {
	Subject        string
	Body           string
	AttachmentName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Path:         v.GetString("DB_PATH"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Auth = AuthConfig{
		Username:     v.GetString("AUTH_USERNAME"),
		Password:     v.GetString("AUTH_PASSWORD"),
		PasswordHash: v.GetString("AUTH_PASSWORD_HASH"),
		BcryptCost:   v.GetInt("AUTH_BCRYPT_COST"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Export = ExportConfig{
		Dir:             v.GetString("EXPORT_DIR"),
		Filename:        v.GetString("EXPORT_FILENAME"),
		SheetName:       v.GetString("EXPORT_SHEET_NAME"),
		Direction:       strings.ToLower(v.GetString("EXPORT_DIRECTION")),
		CSVWithBOM:      v.GetBool("EXPORT_CSV_BOM"),
		PDFFontPath:     v.GetString("EXPORT_PDF_FONT"),
		SignedURLSecret: v.GetString("EXPORT_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORT_SIGNED_URL_TTL"), 30*time.Minute),
	}

	cfg.SMTP = SMTPConfig{
		Host:       v.GetString("SMTP_HOST"),
		Port:       v.GetInt("SMTP_PORT"),
		Timeout:    parseDuration(v.GetString("SMTP_TIMEOUT"), 30*time.Second),
		RequireTLS: v.GetBool("SMTP_REQUIRE_TLS"),
	}

	cfg.Mail = MailConfig{
		Subject:        v.GetString("MAIL_SUBJECT"),
		Body:           v.GetString("MAIL_BODY"),
		AttachmentName: v.GetString("MAIL_ATTACHMENT_NAME"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "eleves.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "literacy_registrar")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "literacy-registrar")

	v.SetDefault("AUTH_USERNAME", "admin")
	v.SetDefault("AUTH_PASSWORD", "")
	v.SetDefault("AUTH_PASSWORD_HASH", "")
	v.SetDefault("AUTH_BCRYPT_COST", 10)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EXPORT_DIR", ".")
	v.SetDefault("EXPORT_FILENAME", "bd_students.xlsx")
	v.SetDefault("EXPORT_SHEET_NAME", "البيانات")
	v.SetDefault("EXPORT_DIRECTION", "rtl")
	v.SetDefault("EXPORT_CSV_BOM", true)
	v.SetDefault("EXPORT_PDF_FONT", "")
	v.SetDefault("EXPORT_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORT_SIGNED_URL_TTL", "30m")

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_TIMEOUT", "30s")
	v.SetDefault("SMTP_REQUIRE_TLS", true)

	v.SetDefault("MAIL_SUBJECT", "بيانات المتمدرسين")
	v.SetDefault("MAIL_BODY", "مرفق ملف بيانات المتمدرسين")
	v.SetDefault("MAIL_ATTACHMENT_NAME", "bd_students.xlsx")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
