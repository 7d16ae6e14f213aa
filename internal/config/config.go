package config

import "os"

type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Auth    AuthConfig
	Storage StorageConfig
	Uploads UploadConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	Port string
}

type MongoConfig struct {
	URI      string
	Database string
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenTTL     string
	RefreshTokenSecret string
	RefreshTokenTTL    string
	CookieSecure       string
	CookieSameSite     string
	CookieDomain       string
	CookiePath         string
}

type StorageConfig struct {
	Provider string
	ID       string
	Secret   string
	Region   string
	Bucket   string
	Endpoint string
}

type UploadConfig struct {
	TempDir string
}

type CORSConfig struct {
	AllowedOrigins string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port: getenv("PORT", "8080"),
		},
		Mongo: MongoConfig{
			URI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getenv("MONGODB_DATABASE", "streamtube"),
		},
		Auth: AuthConfig{
			AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			AccessTokenTTL:     getenv("ACCESS_TOKEN_TTL", "1h"),
			RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			RefreshTokenTTL:    getenv("REFRESH_TOKEN_TTL", "240h"),
			CookieSecure:       os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite:     os.Getenv("AUTH_COOKIE_SAMESITE"),
			CookieDomain:       os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookiePath:         os.Getenv("AUTH_COOKIE_PATH"),
		},
		Storage: StorageConfig{
			Provider: getenv("STORAGE_PROVIDER", "filesystem"),
			ID:       os.Getenv("STORAGE_ACCESS_ID"),
			Secret:   os.Getenv("STORAGE_ACCESS_SECRET"),
			Region:   os.Getenv("STORAGE_REGION"),
			Bucket:   getenv("STORAGE_BUCKET", "public/media"),
			Endpoint: os.Getenv("STORAGE_ENDPOINT"),
		},
		Uploads: UploadConfig{
			TempDir: getenv("UPLOAD_TEMP_DIR", "public/temp"),
		},
		CORS: CORSConfig{
			AllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
