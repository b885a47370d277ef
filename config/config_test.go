package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MONGODB_URL", "DATABASE_NAME", "API_BASE_URL", "UPLOAD_DIR", "STORAGE_DRIVER",
		"STORE_DRIVER", "ADMIN_USERNAME", "ADMIN_PASSWORD", "LOG_LEVEL", "PORT", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 30s
mongo:
  uri: "mongodb://localhost:27017"
  database: "companies_test"
storage:
  driver: "minio"
  base_url: "https://api.example.com/"
  allowed_types: ["application/pdf"]
minio:
  endpoint: "localhost:9000"
  bucket: "uploads"
auth:
  username: "operator"
  password: "s3cret"
cors:
  allowed_origins: ["https://example.netlify.app"]
rate_limit:
  requests: 50
  window: 30s
log:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Expected read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Mongo.Database != "companies_test" {
		t.Errorf("Expected database companies_test, got %s", cfg.Mongo.Database)
	}
	if cfg.Storage.Driver != StorageMinio {
		t.Errorf("Expected storage driver minio, got %s", cfg.Storage.Driver)
	}
	if cfg.Storage.BaseURL != "https://api.example.com" {
		t.Errorf("Expected trailing slash trimmed from base url, got %s", cfg.Storage.BaseURL)
	}
	if len(cfg.Storage.AllowedTypes) != 1 || cfg.Storage.AllowedTypes[0] != "application/pdf" {
		t.Errorf("Expected allowed types [application/pdf], got %v", cfg.Storage.AllowedTypes)
	}
	if cfg.Auth.Username != "operator" {
		t.Errorf("Expected username operator, got %s", cfg.Auth.Username)
	}
	if cfg.RateLimit.Requests != 50 || cfg.RateLimit.Window != 30*time.Second {
		t.Errorf("Unexpected rate limit %+v", cfg.RateLimit)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Log.Format)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
store:
  driver: "memory"
auth:
  password: "pw"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Driver != StorageLocal {
		t.Errorf("Expected default storage local, got %s", cfg.Storage.Driver)
	}
	if cfg.Storage.UploadDir != "uploads" {
		t.Errorf("Expected default upload dir uploads, got %s", cfg.Storage.UploadDir)
	}
	if len(cfg.Storage.AllowedTypes) != 3 {
		t.Errorf("Expected 3 default allowed types, got %v", cfg.Storage.AllowedTypes)
	}
	if cfg.Auth.Username != "admin" {
		t.Errorf("Expected default username admin, got %s", cfg.Auth.Username)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected default log format text, got %s", cfg.Log.Format)
	}
	if cfg.Log.Output != "stdout" {
		t.Errorf("Expected default log output stdout, got %s", cfg.Log.Output)
	}
	if cfg.RateLimit.Requests != 0 {
		t.Errorf("Expected rate limiting disabled by default, got %d", cfg.RateLimit.Requests)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URL", "mongodb://db:27017")
	t.Setenv("DATABASE_NAME", "malaz")
	t.Setenv("API_BASE_URL", "https://files.example.com")
	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("PORT", "7070")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Mongo.URI != "mongodb://db:27017" || cfg.Mongo.Database != "malaz" {
		t.Errorf("Unexpected mongo config %+v", cfg.Mongo)
	}
	if cfg.Storage.BaseURL != "https://files.example.com" {
		t.Errorf("Expected base url from env, got %s", cfg.Storage.BaseURL)
	}
	if cfg.Auth.Password != "from-env" {
		t.Errorf("Expected password from env, got %s", cfg.Auth.Password)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.Server.Port)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("Unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadNonExistent(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: yaml: content:")

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"memory store", func(c *Config) {}, false},
		{"mongo without uri", func(c *Config) { c.Store.Driver = DriverMongo }, true},
		{"mongo without database", func(c *Config) {
			c.Store.Driver = DriverMongo
			c.Mongo.URI = "mongodb://localhost"
		}, true},
		{"unknown store", func(c *Config) { c.Store.Driver = "redis" }, true},
		{"minio without bucket", func(c *Config) {
			c.Storage.Driver = StorageMinio
			c.Minio.Endpoint = "localhost:9000"
		}, true},
		{"unknown storage", func(c *Config) { c.Storage.Driver = "ftp" }, true},
		{"missing password", func(c *Config) { c.Auth.Password = "" }, true},
		{"negative rate limit", func(c *Config) { c.RateLimit.Requests = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Store:   StoreConfig{Driver: DriverMemory},
				Storage: StorageConfig{Driver: StorageLocal},
				Auth:    AuthConfig{Username: "admin", Password: "pw"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
