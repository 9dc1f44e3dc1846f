package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/sweetshop-backend/api/controllers"
	"github.com/angelmondragon/sweetshop-backend/api/middleware"
	"github.com/angelmondragon/sweetshop-backend/api/responses"
	"github.com/angelmondragon/sweetshop-backend/internal/auth"
	"github.com/angelmondragon/sweetshop-backend/internal/categories"
	"github.com/angelmondragon/sweetshop-backend/internal/purchases"
	"github.com/angelmondragon/sweetshop-backend/internal/restocks"
	"github.com/angelmondragon/sweetshop-backend/internal/sweets"
	"github.com/angelmondragon/sweetshop-backend/internal/users"
	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/logger"
	"github.com/angelmondragon/sweetshop-backend/pkg/metrics"
	"github.com/angelmondragon/sweetshop-backend/pkg/redis"
)

// Services groups the domain services the HTTP layer dispatches to.
type Services struct {
	Auth       auth.Service
	Users      users.Service
	Categories categories.Service
	Sweets     sweets.Service
	Purchases  purchases.Service
	Restocks   restocks.Service
}

// NewRouter builds the chi router. redisClient may be nil, which disables auth
// rate limiting and Idempotency-Key replay. metricsHandler serves /metrics when set.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(httpMetrics),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeBadRequest, "Method not allowed"))
	})

	var (
		rateStore   middleware.RateLimitStore
		idemStore   middleware.IdempotencyStore
		redisPinger redis.Pinger
	)
	if redisClient != nil {
		rateStore, idemStore, redisPinger = redisClient, redisClient, redisClient
	}

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

	cookies := middleware.CookieOptions{
		Secure:     cfg.App.IsProd(),
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}
	authOpts := middleware.AuthOptions{
		JWT:     cfg.JWT,
		Cookies: cookies,
		Logger:  logg,
	}
	if svc.Auth != nil {
		authOpts.Refresher = svc.Auth
	}
	requireAuth := middleware.Auth(authOpts)
	optionalAuth := middleware.OptionalAuth(authOpts)
	requireAdmin := middleware.RequireAdmin(logg)
	idempotent := middleware.Idempotency(idemStore, middleware.DefaultIdempotencyTTL, logg)
	maxLimit := cfg.Pagination.MaxLimit

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if metricsHandler != nil && cfg.FeatureFlags.ExposeMetrics {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(svc.Auth, cookies, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, cookies, logg))
		r.Post("/logout", controllers.AuthLogout(svc.Auth, cookies, logg))
		r.With(requireAuth).Get("/me", controllers.AuthMe(svc.Auth, logg))
	})

	r.Route("/api/sweet/category", func(r chi.Router) {
		r.Get("/active/list", controllers.CategoryListActive(svc.Categories, logg))
		r.With(optionalAuth).Get("/", controllers.CategoryList(svc.Categories, maxLimit, logg))
		r.With(optionalAuth).Get("/{id}", controllers.CategoryGet(svc.Categories, logg))
		r.With(requireAuth).Get("/{id}/sweets", controllers.SweetsByCategory(svc.Sweets, maxLimit, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", controllers.CategoryCreate(svc.Categories, logg))
			r.Put("/{id}", controllers.CategoryUpdate(svc.Categories, logg))
			r.Delete("/{id}", controllers.CategoryDelete(svc.Categories, logg))
			r.Post("/{id}/reactivate", controllers.CategoryReactivate(svc.Categories, logg))
		})
	})

	r.Route("/api/sweets", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.SweetList(svc.Sweets, maxLimit, logg))
		r.Get("/search", controllers.SweetSearch(svc.Sweets, logg))
		r.Get("/{id}", controllers.SweetGet(svc.Sweets, logg))
		r.With(idempotent).Post("/{id}/purchase", controllers.SweetPurchase(svc.Purchases, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", controllers.SweetCreate(svc.Sweets, logg))
			r.Put("/{id}", controllers.SweetUpdate(svc.Sweets, logg))
			r.Delete("/{id}", controllers.SweetDelete(svc.Sweets, logg))
			r.Post("/{id}/reactivate", controllers.SweetReactivate(svc.Sweets, logg))
			r.With(idempotent).Post("/{id}/restock", controllers.SweetRestock(svc.Restocks, logg))
			r.Get("/{id}/restocks", controllers.SweetRestockHistory(svc.Restocks, maxLimit, logg))
		})
	})

	r.Route("/api/purchases", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(idempotent).Post("/", controllers.PurchaseCreate(svc.Purchases, logg))
		r.Get("/", controllers.PurchaseList(svc.Purchases, maxLimit, logg))
		r.Get("/user/{userId}", controllers.PurchasesByUser(svc.Purchases, maxLimit, logg))
		r.With(requireAdmin).Get("/sweet/{sweetId}", controllers.PurchasesBySweet(svc.Purchases, maxLimit, logg))
		r.Get("/{id}", controllers.PurchaseGet(svc.Purchases, logg))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/", controllers.UserList(svc.Users, maxLimit, logg))
		r.Get("/{id}", controllers.UserGet(svc.Users, logg))
		r.Put("/{id}", controllers.UserUpdate(svc.Users, logg))
		r.Delete("/{id}", controllers.UserDelete(svc.Users, logg))
	})

	return r
}
