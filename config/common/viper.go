package common

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/viper"
)

type Config struct {
	Viper *viper.Viper
}

func NewViper() *Config {
	config := viper.New()
	config.SetConfigFile(".env")
	config.AddConfigPath("../")
	config.AutomaticEnv()
	setDefaults(config)

	log.Trace("Checking file .env ....")
	if err := config.ReadInConfig(); err != nil {
		log.Warnf("no .env file loaded, using environment only: %v", err)
	}
	return &Config{Viper: config}
}

// NewConfigFrom wraps an already populated viper instance; used by tests.
func NewConfigFrom(v *viper.Viper) *Config {
	setDefaults(v)
	return &Config{Viper: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "keepsakes")
	v.SetDefault("APP_PORT", "7720")
	v.SetDefault("APP_READ_TIMEOUT", "15s")
	v.SetDefault("APP_WRITE_TIMEOUT", "15s")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("ATTACHMENT_FOLDER", "private_dm_attachments")
	v.SetDefault("PROFILE_IMAGE_FOLDER", "user_profiles")
	v.SetDefault("ATTACHMENT_ALLOW_PDF", true)
	v.SetDefault("ATTACHMENT_MAX_SIZE_MB", 5)
	v.SetDefault("ATTACHMENT_DELETE_CONCURRENCY", 4)
	v.SetDefault("BLOCK_CACHE_TTL", "10m")
	v.SetDefault("DEFAULT_PROFILE_IMAGE", "https://res.cloudinary.com/dx83fnzoj/image/upload/v1750111768/user_profiles/default-pfp_wm30df.svg")
}

func (c *Config) GetAppConfig() (appName string) {
	return c.Viper.GetString("APP_NAME")
}

func (c *Config) GetServerConfig() (port string, readTimeout, writeTimeout time.Duration) {
	return c.Viper.GetString("APP_PORT"), c.Viper.GetDuration("APP_READ_TIMEOUT"), c.Viper.GetDuration("APP_WRITE_TIMEOUT")
}

func (c *Config) GetCorsOrigins() string {
	return c.Viper.GetString("CORS_ALLOW_ORIGINS")
}

func (c *Config) GetDatabaseConfig() (dbHost, dbUser, dbPassword, dbName, dbPort string) {
	dbHost = c.Viper.GetString("DB_HOSTNAME")
	dbUser = c.Viper.GetString("DB_USER")
	dbPassword = c.Viper.GetString("DB_PASSWORD")
	dbName = c.Viper.GetString("DB_NAME")
	dbPort = c.Viper.GetString("DB_PORT")

	return dbHost, dbUser, dbPassword, dbName, dbPort
}

func (c *Config) GetDatabaseTimezone() string {
	return c.Viper.GetString("DB_TIMEZONE")
}

// GetReplicaHosts returns the comma separated DB_REPLICAS list, if any.
func (c *Config) GetReplicaHosts() []string {
	raw := strings.TrimSpace(c.Viper.GetString("DB_REPLICAS"))
	if raw == "" {
		return nil
	}
	var hosts []string
	for _, host := range strings.Split(raw, ",") {
		if host = strings.TrimSpace(host); host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

func (c *Config) GetRedisURL() string {
	return c.Viper.GetString("REDIS_URL")
}

func (c *Config) GetBlockCacheTTL() time.Duration {
	return c.Viper.GetDuration("BLOCK_CACHE_TTL")
}

func (c *Config) GetCloudinaryURL() string {
	return c.Viper.GetString("CLOUDINARY_URL")
}

func (c *Config) GetJwtConfig() []byte {
	jwtSecret := c.Viper.GetString("JWT_SECRET")
	return []byte(jwtSecret)
}

func (c *Config) GetJwtTTL() time.Duration {
	return c.Viper.GetDuration("JWT_TTL")
}

func (c *Config) GetLogDir() string {
	return c.Viper.GetString("LOG_DIR")
}

func (c *Config) GetAttachmentConfig() (folder string, allowPDF bool, maxSizeBytes int64, deleteConcurrency int) {
	folder = c.Viper.GetString("ATTACHMENT_FOLDER")
	allowPDF = c.Viper.GetBool("ATTACHMENT_ALLOW_PDF")
	maxSizeBytes = c.Viper.GetInt64("ATTACHMENT_MAX_SIZE_MB") * 1024 * 1024
	deleteConcurrency = c.Viper.GetInt("ATTACHMENT_DELETE_CONCURRENCY")
	return folder, allowPDF, maxSizeBytes, deleteConcurrency
}

func (c *Config) GetProfileImageConfig() (folder, defaultImage string) {
	return c.Viper.GetString("PROFILE_IMAGE_FOLDER"), c.Viper.GetString("DEFAULT_PROFILE_IMAGE")
}
