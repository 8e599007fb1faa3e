// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds portal-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is where
// everything specific to the portal lives: backend connection strings, the
// CMS project, OAuth credentials, and cookie/signing secrets.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: kapatiran-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CSRF protection
	CSRFKey string // 32-byte key for gorilla/csrf form tokens

	// Headless CMS configuration. The public pages fall back to built-in
	// copy when these are blank, so a CMS is optional in development.
	CMSBaseURL   string // CMS API base URL (e.g., https://<project>.api.sanity.io)
	CMSProjectID string // CMS project identifier (used in image CDN URLs)
	CMSDataset   string // CMS dataset name (e.g., production)
	CMSToken     string // Bearer token for the CMS query API
	CMSCacheTTL  time.Duration

	// Redis cache for CMS responses. Blank disables caching.
	RedisAddr string

	// Google OAuth configuration. Blank disables the "Sign in with Google"
	// path on the login screen.
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for absolute links (OAuth callbacks). e.g., "https://kapatiran.ph"
	BaseURL string
}
