package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/service"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/httpx"
	"github.com/campushub/campushub/pkg/jwtx"
	"github.com/campushub/campushub/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	AccountService      *service.AccountService
	SocietyService      *service.SocietyService
	EventService        *service.EventService
	RegistrationService *service.RegistrationService
	BookmarkService     *service.BookmarkService
}

func NewRouter(
	signer *jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
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
	r.registerAuth()
	r.registerMe()
	r.registerSocieties()
	r.registerEvents()
	r.registerRegistrations()
	r.registerBookmarks()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps a handler with authn and a per-account rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig, mws ...httpx.Middleware) http.Handler {
	chain := []httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}
	chain = append(chain, mws...)
	chain = append(chain, httpx.RateLimitByAccount(limit))
	return httpx.Chain(h, chain...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AccountService: r.AccountService, Signer: r.signer}

	// Credential endpoints get a strict per-IP limit to slow down brute
	// force and signup abuse.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{AccountService: r.AccountService}

	r.Mux.Handle("GET /v1/me", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/me", r.secured(http.HandlerFunc(h.HandlePatch), httpx.ModerateLimit))
}

func (r *Router) registerSocieties() {
	h := &SocietiesHandler{SocietyService: r.SocietyService}

	adminOnly := httpx.RequireAnyRole(string(domain.RoleAdmin))

	r.Mux.Handle("POST /v1/societies",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit, adminOnly))
	r.Mux.Handle("GET /v1/societies",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/societies/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/societies/{id}",
		r.secured(http.HandlerFunc(h.HandlePatch), httpx.ModerateLimit))
}

func (r *Router) registerEvents() {
	h := &EventsHandler{EventService: r.EventService}

	organizers := httpx.RequireAnyRole(
		string(domain.RoleOrganizer),
		string(domain.RoleAdmin),
	)

	r.Mux.Handle("POST /v1/events",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit, organizers))
	r.Mux.Handle("GET /v1/events",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/events/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/events/{id}",
		r.secured(http.HandlerFunc(h.HandlePatch), httpx.ModerateLimit, organizers))
	r.Mux.Handle("POST /v1/events/{id}/publish",
		r.secured(http.HandlerFunc(h.HandlePublish), httpx.ModerateLimit, organizers))
	r.Mux.Handle("POST /v1/events/{id}/cancel",
		r.secured(http.HandlerFunc(h.HandleCancel), httpx.ModerateLimit, organizers))
}

func (r *Router) registerRegistrations() {
	h := &RegistrationsHandler{RegistrationService: r.RegistrationService}

	r.Mux.Handle("POST /v1/events/{id}/registrations",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/registrations",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/registrations/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/registrations/{id}/respond",
		r.secured(http.HandlerFunc(h.HandleRespond), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/registrations/{id}/members",
		r.secured(http.HandlerFunc(h.HandleAddMembers), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/registrations/{id}/members/{memberID}",
		r.secured(http.HandlerFunc(h.HandleRemoveMember), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/registrations/{id}/cancel",
		r.secured(http.HandlerFunc(h.HandleCancel), httpx.ModerateLimit))
}

func (r *Router) registerBookmarks() {
	h := &BookmarksHandler{BookmarkService: r.BookmarkService}

	r.Mux.Handle("PUT /v1/events/{id}/bookmark",
		r.secured(http.HandlerFunc(h.HandlePut), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/events/{id}/bookmark",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/bookmarks",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	// Health endpoints keep a lenient per-IP limit; monitoring systems
	// poll these frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
