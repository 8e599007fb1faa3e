// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	authgooglefeature "github.com/kapatiranph/portal/internal/app/features/authgoogle"
	contributionsfeature "github.com/kapatiranph/portal/internal/app/features/contributions"
	dashboardfeature "github.com/kapatiranph/portal/internal/app/features/dashboard"
	errorsfeature "github.com/kapatiranph/portal/internal/app/features/errors"
	eventsfeature "github.com/kapatiranph/portal/internal/app/features/events"
	healthfeature "github.com/kapatiranph/portal/internal/app/features/health"
	homefeature "github.com/kapatiranph/portal/internal/app/features/home"
	loginfeature "github.com/kapatiranph/portal/internal/app/features/login"
	logoutfeature "github.com/kapatiranph/portal/internal/app/features/logout"
	membersfeature "github.com/kapatiranph/portal/internal/app/features/members"
	orgchartfeature "github.com/kapatiranph/portal/internal/app/features/orgchart"
	portalmemberfeature "github.com/kapatiranph/portal/internal/app/features/portalmember"

	"github.com/kapatiranph/portal/internal/app/cms"
	accountstore "github.com/kapatiranph/portal/internal/app/store/accounts"
	contribstore "github.com/kapatiranph/portal/internal/app/store/contributions"
	eventstore "github.com/kapatiranph/portal/internal/app/store/events"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/auth"
	"github.com/kapatiranph/portal/internal/app/system/metrics"
	"github.com/kapatiranph/portal/internal/app/system/zones"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// The portal mounts three surfaces on one router:
//   - public pages (CMS-backed home/about, login, Google sign-in, health)
//   - the admin portal under /portal and the JSON API under /api/members
//   - the member portal under /portal-member
//
// Access is enforced once, by the zone guard, before any feature handler
// runs; handlers still call their own gate for defense in depth.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh account data on
	// each request. Role changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(accountstore.NewFetcher(deps.PortalMongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	db := deps.PortalMongoDatabase
	cmsClient := cms.New(appCfg.CMSBaseURL, appCfg.CMSProjectID, appCfg.CMSDataset, appCfg.CMSToken, deps.CMSCache, logger)

	r := chi.NewRouter()

	// Request metrics first so every request is counted, even rejected ones.
	r.Use(metrics.Middleware)

	// Global auth middleware: loads the session user into context if signed
	// in, then the zone guard decides whether the request may proceed at all.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(zones.Guard(zones.Default()))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.PortalMongoClient, deps.CMSCache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// One-shot notices ("Member saved.") carried across redirects.
	flash := auth.NewFlashStore(appCfg.SessionKey, secure, logger)

	// JSON API for the mobile client. Session-cookie authenticated but not
	// CSRF-protected: the client sends no HTML forms.
	membersHandler := membersfeature.NewHandler(db, flash, errLog, logger)
	r.Mount("/api/members", membersfeature.APIRoutes(membersHandler))

	// Everything below serves HTML forms, so it sits behind CSRF protection.
	r.Group(func(r chi.Router) {
		r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrf.Secure(secure), csrf.Path("/")))

		// Public pages
		homeHandler := homefeature.NewHandler(cmsClient, logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		googleHandler := authgooglefeature.NewHandler(
			accountstore.New(db), sessionMgr,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
			secure, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		loginHandler := loginfeature.NewHandler(accountstore.New(db), sessionMgr, errLog, googleHandler.Enabled(), logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler))

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		// Admin portal
		dashboardHandler := dashboardfeature.NewHandler(
			memberstore.New(db), eventstore.New(db), eventstore.NewAttendance(db),
			contribstore.New(db), errLog, logger)
		r.Mount("/portal", dashboardfeature.Routes(dashboardHandler))

		r.Mount("/portal/members", membersfeature.Routes(membersHandler))

		eventsHandler := eventsfeature.NewHandler(db, errLog, logger)
		r.Mount("/portal/events", eventsfeature.Routes(eventsHandler))

		contribHandler := contributionsfeature.NewHandler(db, errLog, logger)
		r.Mount("/portal/contributions", contributionsfeature.Routes(contribHandler))

		orgchartHandler := orgchartfeature.NewHandler(db, errLog, logger)
		r.Mount("/portal/orgchart", orgchartfeature.Routes(orgchartHandler))

		// Member portal
		memberHandler := portalmemberfeature.NewHandler(db, errLog, logger)
		r.Mount("/portal-member", portalmemberfeature.Routes(memberHandler))
	})

	return r, nil
}
