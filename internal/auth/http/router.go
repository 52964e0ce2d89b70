package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/capmanage/capmanage/internal/auth/domain"
	"github.com/capmanage/capmanage/internal/auth/service"
	"github.com/capmanage/capmanage/internal/auth/store"
	"github.com/capmanage/capmanage/pkg/httpx"
	"github.com/capmanage/capmanage/pkg/slogx"

	_ "github.com/capmanage/capmanage/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	CredentialService *service.CredentialService
	AccountService    *service.AccountService
	TokenService      *service.TokenService
	SessionService    *service.SessionService
	AdminService      *service.AdminService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccount()
	r.registerSession()
	r.registerMe()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CapManage Authentication Service API
//	@version		0.1.0
//	@description	Credential and session management for CapManage: registration, email verification,
//	@description	password reset and JWT sessions with rotating refresh tokens.
//	@description
//	@description				Every response is wrapped in {"success": bool, "data": ..., "error": {...}}.
//
//	@contact.name				CapManage Team
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{AccountService: r.AccountService}

	// Registration and password reset completion - strict rate limit by IP
	r.Mux.Handle("POST /api/v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/register/faculty",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterFaculty),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/password/reset",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Verification links are clicked once, but mail clients prefetch them
	r.Mux.Handle("POST /api/v1/auth/verify-email",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmail),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Anything that sends mail is limited per IP and per target address
	r.Mux.Handle("POST /api/v1/auth/verify-email/resend",
		httpx.Chain(http.HandlerFunc(h.HandleResendVerification),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/password/request-reset",
		httpx.Chain(http.HandlerFunc(h.HandleRequestPasswordReset),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{TokenService: r.TokenService}

	// POST /login - strict rate limit by IP + email to slow down brute force
	r.Mux.Handle("POST /api/v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("POST /api/v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{CredentialService: r.CredentialService}

	// Authenticated endpoint - lenient rate limit by user
	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(SessionAuthenticator(r.SessionService)),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /api/v1/auth/me", secured)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}

	// Admin only - authenticated, role checked, lenient rate limit by user
	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(SessionAuthenticator(r.SessionService)),
			httpx.RequireRole(string(domain.RoleAdmin)),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /api/v1/auth/faculty/requests", admin(h.HandleListFacultyRequests))
	r.Mux.Handle("PATCH /api/v1/auth/faculty/requests/{id}", admin(h.HandleReviewFacultyRequest))
	r.Mux.Handle("POST /api/v1/auth/users/{id}/activate", admin(h.HandleActivateUser))
	r.Mux.Handle("POST /api/v1/auth/users/{id}/deactivate", admin(h.HandleDeactivateUser))
	r.Mux.Handle("PATCH /api/v1/auth/users/{id}/role", admin(h.HandleChangeUserRole))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
