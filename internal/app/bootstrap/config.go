// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the portal.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: KAPATIRAN_MONGO_URI, KAPATIRAN_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "kapatiran", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "kapatiran-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789ABCD", Desc: "32-byte CSRF signing key (must be strong in production)"},

	// Headless CMS configuration (public marketing pages)
	{Name: "cms_base_url", Default: "", Desc: "CMS API base URL (blank disables CMS-backed pages)"},
	{Name: "cms_project_id", Default: "", Desc: "CMS project ID (used to build image CDN URLs)"},
	{Name: "cms_dataset", Default: "production", Desc: "CMS dataset name"},
	{Name: "cms_token", Default: "", Desc: "Bearer token for the CMS query API"},
	{Name: "cms_cache_ttl", Default: "5m", Desc: "TTL for cached CMS responses (e.g., 5m, 1h)"},

	// Redis cache for CMS responses
	{Name: "redis_addr", Default: "", Desc: "Redis address for the CMS response cache (blank disables caching)"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Base URL for absolute links (OAuth callbacks)
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks and absolute links"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, KAPATIRAN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KAPATIRAN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		CSRFKey:          appValues.String("csrf_key"),

		// CMS
		CMSBaseURL:   appValues.String("cms_base_url"),
		CMSProjectID: appValues.String("cms_project_id"),
		CMSDataset:   appValues.String("cms_dataset"),
		CMSToken:     appValues.String("cms_token"),
		CMSCacheTTL:  appValues.Duration("cms_cache_ttl", 5*time.Minute),

		// Redis
		RedisAddr: appValues.String("redis_addr"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		// Base URL
		BaseURL: appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters")
	}

	// gorilla/csrf derives an HMAC key from exactly 32 bytes.
	if len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 characters, got %d", len(appCfg.CSRFKey))
	}

	// The CMS client needs the project ID to resolve image asset refs into
	// CDN URLs, so a base URL without one is a misconfiguration.
	if appCfg.CMSBaseURL != "" && appCfg.CMSProjectID == "" {
		return fmt.Errorf("cms_base_url is set but cms_project_id is blank")
	}

	// Google sign-in needs both halves of the credential.
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}

	return nil
}
