package blog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/premium-blog/internal/config"
	// Регистрация описания API для swagger UI.
	_ "github.com/magabrotheeeer/premium-blog/internal/docs"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/forms"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/pages/contacts"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/payment/paymentsuccess"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/payment/subscribe"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/comments"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/create"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/detail"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/like"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/list"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/remove"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/search"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/unpublish"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/posts/update"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/series"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/users/cabinet"
	"github.com/magabrotheeeer/premium-blog/internal/http/handlers/users/profile"
	"github.com/magabrotheeeer/premium-blog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
)

// AuthService — всё, что маршрутам нужно от сервиса авторизации.
type AuthService interface {
	middlewarectx.Service
	register.Service
	verify.Service
	signup.Service
	login.Service
	refresh.Service
	logout.Service
	profile.Service
}

// PostService — всё, что маршрутам нужно от сервиса постов.
type PostService interface {
	list.Service
	detail.Service
	create.Service
	update.Service
	remove.Service
	unpublish.Service
	like.Service
	comments.Service
	search.Service
	series.Service
}

// SubscriptionService — всё, что маршрутам нужно от сервиса подписок.
type SubscriptionService interface {
	subscribe.Service
	paymentcreate.Service
	paymentlist.Service
	paymentsuccess.Service
	paymentwebhook.Service
	cabinet.Service
}

// Deps — зависимости маршрутов.
type Deps struct {
	Auth          AuthService
	Posts         PostService
	Subscription  SubscriptionService
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Contacts      config.Contacts
	SubscribePath string
	RateLimit     float64
	RateBurst     int
}

// NewRouter регистрирует все маршруты приложения.
func NewRouter(logger *slog.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(deps.Metrics),
	)

	requireAuth := middlewarectx.JWTMiddleware(deps.Auth, logger)
	optionalAuth := middlewarectx.OptionalJWTMiddleware(deps.Auth, logger)
	limiter := middlewarectx.NewIPRateLimiter(deps.RateLimit, deps.RateBurst)

	feed := list.New(logger, deps.Posts)
	commentsHandler := comments.New(logger, deps.Posts)
	seriesHandler := series.New(logger, deps.Posts)
	likeHandler := like.New(logger, deps.Posts)

	// Страницы
	r.With(optionalAuth).Get("/", feed.ServeHTTP)
	r.Get("/contacts/", contacts.New(deps.Contacts).ServeHTTP)
	r.Get("/subscribe/", subscribe.New(deps.Subscription).ServeHTTP)
	r.Get("/payment-success/", paymentsuccess.New(logger, deps.Subscription).ServeHTTP)
	r.With(requireAuth).Post("/payment/", paymentcreate.NewRedirect(logger, deps.Subscription).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/posts", feed.ServeHTTP)
			r.Get("/posts/{id}", detail.New(logger, deps.Posts, deps.SubscribePath).ServeHTTP)
		})
		r.Get("/posts/{id}/comments", commentsHandler.List)
		r.Get("/series/{id}/posts", seriesHandler.Posts)
		r.Get("/search", search.New(logger, deps.Posts).ServeHTTP)
		r.Get("/forms/{name}", forms.New().ServeHTTP)
		r.Post("/users", signup.New(logger, deps.Auth).ServeHTTP)
		r.Post("/token", login.New(logger, deps.Auth).ServeHTTP)
		r.Post("/token/refresh", refresh.New(logger, deps.Auth).ServeHTTP)

		// Регистрация с ограничением частоты запросов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))
			r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
			r.Post("/verify-phone", verify.New(logger, deps.Auth).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, проверяется подпись)
		r.Post("/payments/webhook", paymentwebhook.New(logger, deps.Subscription).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/posts", create.New(logger, deps.Posts).ServeHTTP)
			r.Put("/posts/{id}", update.New(logger, deps.Posts).ServeHTTP)
			r.Delete("/posts/{id}", remove.New(logger, deps.Posts).ServeHTTP)
			r.Post("/posts/{id}/unpublish", unpublish.New(logger, deps.Posts).ServeHTTP)
			r.Post("/posts/{id}/like", likeHandler.ServeHTTP)
			r.Delete("/posts/{id}/like", likeHandler.ServeHTTP)
			r.Post("/posts/{id}/comments", commentsHandler.Create)
			r.Post("/series", seriesHandler.Create)
			r.Get("/users/me", cabinet.New(logger, deps.Subscription).ServeHTTP)
			r.Patch("/users/me", profile.New(logger, deps.Auth).ServeHTTP)
			r.Post("/logout", logout.New(logger, deps.Auth).ServeHTTP)
			r.Post("/payments", paymentcreate.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, deps.Subscription).ServeHTTP)
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
