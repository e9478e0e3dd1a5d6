package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS  = ""             // e.g. "example.com,example2.com"
	BIND_ADDRESS = "0.0.0.0:8080" //
	DEBUG_MODE   = false
	MYSQL_DSN    = ""            // MySQL will be used if this is set
	SQLITE_FILE  = "albumate.db" // SQLite will be used if MYSQL_DSN is not configured
	// Tokens. An empty JWT_SECRET makes `serve` generate a random one (tokens then die with the process)
	JWT_SECRET            = ""
	ACCESS_TOKEN_EXPIRES  = 3600    // seconds
	REFRESH_TOKEN_EXPIRES = 1209600 // seconds, 14 days
	// Revoked tokens are kept in Redis if REDIS_ADDR is set, in memory otherwise
	REDIS_ADDR     = ""
	REDIS_PASSWORD = ""
	REDIS_DB       = 0
	// Photo bytes. STORAGE_TYPE is one of "disk", "s3", "minio"
	STORAGE_TYPE       = "disk"
	STORAGE_PATH       = "uploads" // Directory on disk or a key prefix in S3/MinIO
	STORAGE_BUCKET     = ""
	STORAGE_REGION     = "us-east-1"
	STORAGE_ENDPOINT   = "" // MinIO endpoint (host:port) or a custom S3 endpoint
	STORAGE_ACCESS_KEY = ""
	STORAGE_SECRET_KEY = ""
	STORAGE_USE_SSL    = true
	STORAGE_SSE        = "" // S3 server side encryption, e.g. "AES256" or "aws:kms"
	PUBLIC_URL         = "" // Prefix for URLs of files served from disk, e.g. "https://photos.example.com"
	MAX_UPLOAD_MB      = 32
	// Logging
	LOG_LEVEL = "info"
	LOG_FILE  = "" // Only stdout if empty
)

func init() {
	// Existing environment variables take precedence over .env
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("JWT_SECRET", &JWT_SECRET)
	readEnvInt("ACCESS_TOKEN_EXPIRES", &ACCESS_TOKEN_EXPIRES)
	readEnvInt("REFRESH_TOKEN_EXPIRES", &REFRESH_TOKEN_EXPIRES)
	readEnvString("REDIS_ADDR", &REDIS_ADDR)
	readEnvString("REDIS_PASSWORD", &REDIS_PASSWORD)
	readEnvInt("REDIS_DB", &REDIS_DB)
	readEnvString("STORAGE_TYPE", &STORAGE_TYPE)
	readEnvString("STORAGE_PATH", &STORAGE_PATH)
	readEnvString("STORAGE_BUCKET", &STORAGE_BUCKET)
	readEnvString("STORAGE_REGION", &STORAGE_REGION)
	readEnvString("STORAGE_ENDPOINT", &STORAGE_ENDPOINT)
	readEnvString("STORAGE_ACCESS_KEY", &STORAGE_ACCESS_KEY)
	readEnvString("STORAGE_SECRET_KEY", &STORAGE_SECRET_KEY)
	readEnvBool("STORAGE_USE_SSL", &STORAGE_USE_SSL)
	readEnvString("STORAGE_SSE", &STORAGE_SSE)
	readEnvString("PUBLIC_URL", &PUBLIC_URL)
	readEnvInt("MAX_UPLOAD_MB", &MAX_UPLOAD_MB)
	readEnvString("LOG_LEVEL", &LOG_LEVEL)
	readEnvString("LOG_FILE", &LOG_FILE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
