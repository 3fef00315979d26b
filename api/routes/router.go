package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplite/shoplite-backend/api/controllers"
	"github.com/shoplite/shoplite-backend/api/middleware"
	"github.com/shoplite/shoplite-backend/internal/auth"
	"github.com/shoplite/shoplite-backend/internal/cart"
	"github.com/shoplite/shoplite-backend/internal/items"
	"github.com/shoplite/shoplite-backend/pkg/config"
	"github.com/shoplite/shoplite-backend/pkg/db"
	"github.com/shoplite/shoplite-backend/pkg/logger"
	"github.com/shoplite/shoplite-backend/pkg/metrics"
	"github.com/shoplite/shoplite-backend/pkg/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Registry    *prometheus.Registry
	AuthService auth.Service
	ItemService items.Service
	CartService cart.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()

	var registerer prometheus.Registerer
	if deps.Registry != nil {
		registerer = deps.Registry
	}
	httpMetrics := metrics.NewHTTPMetrics(registerer)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// a typed nil *redis.Client must not masquerade as a live Pinger
	var cache redis.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.Register(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.Me(deps.AuthService, logg))
	})

	// Catalog routes are unauthenticated; the batch `ids` form of the list
	// endpoint is the resolver surface the cart view reads through.
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Get("/", controllers.ItemsList(deps.ItemService, logg))
		r.Post("/", controllers.ItemsCreate(deps.ItemService, logg))
		r.Get("/{itemId}", controllers.ItemsGet(deps.ItemService, logg))
		r.Put("/{itemId}", controllers.ItemsUpdate(deps.ItemService, logg))
		r.Delete("/{itemId}", controllers.ItemsDelete(deps.ItemService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.CartGet(deps.CartService, logg))
		r.Post("/add", controllers.CartAdd(deps.CartService, logg))
		r.Put("/update", controllers.CartUpdate(deps.CartService, logg))
		r.Delete("/remove/{itemId}", controllers.CartRemove(deps.CartService, logg))
		r.Delete("/clear", controllers.CartClear(deps.CartService, logg))
	})

	return r
}
