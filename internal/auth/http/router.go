package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mundocomputo/authd/internal/auth/service"
	"github.com/mundocomputo/authd/internal/auth/store"
	"github.com/mundocomputo/authd/pkg/httpx"
	"github.com/mundocomputo/authd/pkg/jwtx"
	"github.com/mundocomputo/authd/pkg/slogx"

	_ "github.com/mundocomputo/authd/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	mailOK bool

	IssuerService   *service.IssuerService
	VerifierService *service.VerifierService
	SessionService  *service.SessionService
	InvoiceService  *service.InvoiceService
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	mailOK bool,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		mailOK:       mailOK,
		logger:       logger,
	}

	// Set default middleware chain. CORS runs outermost so even rate-limited
	// and preflight responses carry the headers browser clients need.
	r.middlewares = []httpx.Middleware{
		httpx.CORS(),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTwoFA()
	r.registerSession()
	r.registerInvoices()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			MundoComputo Authentication Service API
//	@version		0.1.0
//	@description	Email-based second-factor verification for the MundoComputo business suite:
//	@description	one-time code issuing and verification, session role resolution, and invoice mail dispatch.
//
//	@contact.name				MundoComputo Team
//	@contact.url				https://github.com/mundocomputo/authd
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Primary-auth session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerTwoFA() {
	h := &TwoFAHandler{
		Issuer:   r.IssuerService,
		Verifier: r.VerifierService,
	}

	// POST /2fa/send - moderate rate limit (each request costs an outbound mail)
	r.Mux.Handle("POST /v1/2fa/send",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /2fa/verify - strict rate limit (guessing surface for 6-digit codes)
	r.Mux.Handle("POST /v1/2fa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService}

	// Authenticated read endpoint - lenient limit (the client observer polls it)
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerInvoices() {
	h := &InvoiceHandler{Invoices: r.InvoiceService}

	// POST /invoices/email - moderate rate limit (outbound mail per request)
	r.Mux.Handle("POST /v1/invoices/email",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.mailOK),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
