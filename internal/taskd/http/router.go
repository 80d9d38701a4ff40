package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskd/internal/taskd/domain"
	"github.com/aussiebroadwan/taskd/internal/taskd/metrics"
	"github.com/aussiebroadwan/taskd/internal/taskd/service"
	"github.com/aussiebroadwan/taskd/internal/taskd/store"
	"github.com/aussiebroadwan/taskd/pkg/httpx"
	"github.com/aussiebroadwan/taskd/pkg/jwtx"
	"github.com/aussiebroadwan/taskd/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/aussiebroadwan/taskd/api/taskd" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	IdentityService *service.IdentityService
	AccountService  *service.AccountService
	TaskService     *service.TaskService

	// Metrics and Gatherer are optional; /metrics is only served when
	// Gatherer is set.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
}

func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{slogx.HTTPMiddleware(r.logger)}
	if r.Metrics != nil {
		r.middlewares = append(r.middlewares, r.Metrics.Middleware)
	}

	r.registerAuth()
	r.registerAccounts()
	r.registerTasks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			taskd API
//	@version		0.1.0
//	@description	Account registration, session tokens and owner-scoped tasks.
//	@description
//	@description	The first account registered on an empty deployment becomes ADMIN.
//	@description	Session tokens are JWTs; in EdDSA mode they can be verified against the JWKS endpoint.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/taskd
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{IdentityService: r.IdentityService}

	// Registration is anonymous only for the bootstrap account, but a token
	// that is sent must be valid. Limited by IP + email against enumeration.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
			httpx.OptionalAuthnMiddleware(r.keys.Verifier),
		),
	)

	// Strict limit by IP + email to slow down credential stuffing
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	authed := func(next http.HandlerFunc, mws ...httpx.Middleware) http.Handler {
		chain := append([]httpx.Middleware{httpx.AuthnMiddleware(r.keys.Verifier)}, mws...)
		chain = append(chain, httpx.RateLimitByAccount(httpx.ModerateLimit))
		return httpx.Chain(next, chain...)
	}
	adminOnly := httpx.RequireRole(string(domain.RoleAdmin))

	r.Mux.Handle("GET /v1/accounts/me", authed(h.HandleMe))
	r.Mux.Handle("GET /v1/accounts", authed(h.HandleList, adminOnly))
	r.Mux.Handle("GET /v1/accounts/{id}", authed(h.HandleGet, adminOnly))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	authed := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.keys.Verifier),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/tasks", authed(h.HandleCreate))
	r.Mux.Handle("GET /v1/tasks", authed(h.HandleList))
	r.Mux.Handle("GET /v1/tasks/{id}", authed(h.HandleGet))
	r.Mux.Handle("PATCH /v1/tasks/{id}", authed(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/tasks/{id}", authed(h.HandleDelete))
}

func (r *Router) registerSystem() {
	// HS256 deployments have nothing public to publish
	if r.keys.PublishesKeys() {
		r.Mux.Handle("GET /.well-known/jwks.json",
			httpx.Chain(JWKSHandler(r.keys.KeySet),
				httpx.RateLimitByIP(httpx.PublicLimit),
			),
		)
	}

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.Gatherer))
	}
}
