package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karunasetu/karuna-backend/api/controllers"
	"github.com/karunasetu/karuna-backend/api/middleware"
	adminauth "github.com/karunasetu/karuna-backend/internal/auth"
	"github.com/karunasetu/karuna-backend/internal/celebrations"
	"github.com/karunasetu/karuna-backend/internal/gallery"
	"github.com/karunasetu/karuna-backend/internal/orders"
	"github.com/karunasetu/karuna-backend/internal/roster"
	"github.com/karunasetu/karuna-backend/pkg/config"
	"github.com/karunasetu/karuna-backend/pkg/db"
	"github.com/karunasetu/karuna-backend/pkg/logger"
	"github.com/karunasetu/karuna-backend/pkg/redis"
	"github.com/karunasetu/karuna-backend/pkg/storage"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger db.Pinger,
	redisClient *redis.Client,
	verifier *adminauth.Verifier,
	galleryService *gallery.Service,
	rosterService *roster.Service,
	celebrationService *celebrations.Service,
	orderService *orders.Service,
	local *storage.LocalStore,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginLimiter := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		)
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	}

	adminGate := middleware.AdminGate(cfg.Admin.APIKey, verifier, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, logg))
	})

	// Uploaded assets on the local fallback backend are served straight
	// from disk.
	if local != nil {
		fileServer := http.StripPrefix(local.URLPrefix()+"/", http.FileServer(http.Dir(local.Root())))
		r.Get(local.URLPrefix()+"/*", fileServer.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())

		r.Route("/admin", func(r chi.Router) {
			r.With(loginLimiter).Post("/login", controllers.AdminLogin(verifier, logg))
			r.Post("/logout", controllers.AdminLogout(logg))

			r.Group(func(r chi.Router) {
				r.Use(adminGate)
				r.Get("/ping", controllers.AdminPing())
				r.Get("/orders", controllers.ListOrders(orderService, logg))
			})
		})

		// Reads are public; every mutation lives under the entity's /admin
		// subtree behind the gate.
		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", controllers.ListGallery(galleryService, logg))
			r.Get("/featured", controllers.FeaturedGallery(galleryService, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminGate)
				r.Post("/", controllers.UploadGalleryImages(galleryService, cfg.Uploads, logg))
				r.Patch("/{id}", controllers.UpdateGalleryImage(galleryService, logg))
				r.Delete("/{id}", controllers.DeleteGalleryImage(galleryService, logg))
			})
		})

		r.Route("/donors", func(r chi.Router) {
			r.Get("/", controllers.ListDonors(rosterService, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminGate)
				r.Post("/", controllers.CreateDonor(rosterService, cfg.Uploads, logg))
				r.Post("/reorder", controllers.ReorderDonors(rosterService, logg))
				r.Put("/{id}", controllers.UpdateDonor(rosterService, cfg.Uploads, logg))
				r.Patch("/{id}", controllers.UpdateDonor(rosterService, cfg.Uploads, logg))
				r.Delete("/{id}", controllers.DeleteDonor(rosterService, logg))
			})
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/", controllers.ListMembers(rosterService, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminGate)
				r.Post("/", controllers.CreateMember(rosterService, cfg.Uploads, logg))
				r.Post("/reorder", controllers.ReorderMembers(rosterService, logg))
				r.Put("/{id}", controllers.UpdateMember(rosterService, cfg.Uploads, logg))
				r.Patch("/{id}", controllers.UpdateMember(rosterService, cfg.Uploads, logg))
				r.Delete("/{id}", controllers.DeleteMember(rosterService, logg))
			})
		})

		r.Route("/celebrations", func(r chi.Router) {
			r.Get("/", controllers.ListCelebrations(celebrationService, logg))

			// Products hang off the celebrations namespace.
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(celebrationService, logg))
				r.Get("/{id}", controllers.GetProduct(celebrationService, logg))

				r.Route("/admin", func(r chi.Router) {
					r.Use(adminGate)
					r.Post("/", controllers.CreateProduct(celebrationService, cfg.Uploads, logg))
					r.Post("/reorder", controllers.ReorderProducts(celebrationService, logg))
					r.Put("/{id}", controllers.UpdateProduct(celebrationService, cfg.Uploads, logg))
					r.Patch("/{id}", controllers.UpdateProduct(celebrationService, cfg.Uploads, logg))
					r.Delete("/{id}", controllers.DeleteProduct(celebrationService, logg))
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminGate)
				r.Post("/", controllers.CreateCelebration(celebrationService, cfg.Uploads, logg))
				r.Post("/reorder", controllers.ReorderCelebrations(celebrationService, logg))
				r.Put("/{id}", controllers.UpdateCelebration(celebrationService, cfg.Uploads, logg))
				r.Patch("/{id}", controllers.UpdateCelebration(celebrationService, cfg.Uploads, logg))
				r.Delete("/{id}", controllers.DeleteCelebration(celebrationService, logg))
			})

			r.Get("/{id}", controllers.GetCelebration(celebrationService, logg))
			r.Get("/{id}/products", controllers.ListCelebrationProducts(celebrationService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(orderService, logg))
			r.Get("/{id}", controllers.GetOrder(orderService, logg))
			r.Post("/{id}/confirm", controllers.ConfirmOrder(orderService, logg))
		})
	})

	return r
}
