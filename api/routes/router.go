package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/wayfarer-backend/api/controllers"
	"github.com/angelmondragon/wayfarer-backend/api/middleware"
	"github.com/angelmondragon/wayfarer-backend/pkg/config"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	catalogService controllers.CatalogLookup,
	quoteService controllers.QuotePreviewer,
	wizardService controllers.WizardSessions,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	var (
		redisP controllers.Pinger
		idem   redis.IdempotencyStore
	)
	if redisClient != nil {
		redisP = redisClient
		idem = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idem, logg))

		r.Post("/quotes", controllers.QuoteCreate(quoteService, logg))
		r.Get("/catalog/{kind}/{id}", controllers.CatalogFetch(catalogService, logg))

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", controllers.WizardStart(wizardService, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.WizardFetch(wizardService, logg))
				r.Patch("/", controllers.WizardPatch(wizardService, logg))
				r.Delete("/", controllers.WizardCancel(wizardService, logg))
				r.Post("/next", controllers.WizardNext(wizardService, logg))
				r.Post("/previous", controllers.WizardPrevious(wizardService, logg))
				r.Post("/submit", controllers.WizardSubmit(wizardService, logg))
			})
		})
	})

	return r
}
