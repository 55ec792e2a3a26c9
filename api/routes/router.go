package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oguzsenturk/vitalshop-backend/api/controllers"
	"github.com/oguzsenturk/vitalshop-backend/api/middleware"
	"github.com/oguzsenturk/vitalshop-backend/internal/admins"
	"github.com/oguzsenturk/vitalshop-backend/internal/cart"
	"github.com/oguzsenturk/vitalshop-backend/internal/catalog"
	checkoutsvc "github.com/oguzsenturk/vitalshop-backend/internal/checkout"
	"github.com/oguzsenturk/vitalshop-backend/internal/content"
	"github.com/oguzsenturk/vitalshop-backend/internal/orders"
	"github.com/oguzsenturk/vitalshop-backend/internal/settings"
	"github.com/oguzsenturk/vitalshop-backend/internal/uploads"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
	"github.com/oguzsenturk/vitalshop-backend/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *metrics.HTTPMetrics
	Registry  *prometheus.Registry
	Readiness map[string]controllers.Pinger
	Catalog   catalog.Service
	Content   content.Service
	Settings  settings.Service
	Uploads   uploads.Service
	Cart      cart.Service
	Orders    orders.Service
	Checkout  checkoutsvc.Service
	Admins    admins.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Readiness))
	})
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Locally stored uploads are served straight off disk.
	uploadsPrefix := "/uploads/"
	r.Handle(uploadsPrefix+"*", http.StripPrefix(uploadsPrefix, http.FileServer(http.Dir(cfg.Upload.Dir))))

	r.Route("/api", func(r chi.Router) {
		// Public storefront surface.
		r.Get("/products", controllers.PublicProducts(d.Catalog, logg))
		// The wildcard is an id or slug publicly and an id on the
		// admin verbs; chi requires one name per slot.
		r.Get("/products/{productRef}", controllers.PublicProduct(d.Catalog, logg))
		r.Get("/banners", controllers.PublicBanners(d.Content, logg))
		r.Get("/slides", controllers.PublicSlides(d.Content, logg))
		r.Get("/testimonials", controllers.PublicTestimonials(d.Content, logg))
		r.Get("/site-settings", controllers.SiteSettings(d.Settings, logg))
		r.Get("/payment-settings", controllers.PublicPaymentSettings(d.Settings, logg))
		r.Post("/upload", controllers.Upload(d.Uploads, logg))

		r.Route("/card-payment", func(r chi.Router) {
			r.Get("/status", controllers.CardPaymentStatus(d.Settings, logg))
			r.Get("/intents/{intentID}", controllers.CardPaymentIntent(d.Checkout, logg))
			r.Post("/callback/{provider}", controllers.CardPaymentCallback(d.Checkout, cfg.App, logg))
		})

		// Everything below operates on the shopper's cart token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartToken(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(d.Cart, logg))
				r.Delete("/", controllers.ClearCart(d.Cart, logg))
				r.Post("/items", controllers.AddCartItem(d.Cart, logg))
				r.Patch("/items/{identityKey}", controllers.UpdateCartItem(d.Cart, logg))
				r.Delete("/items/{identityKey}", controllers.RemoveCartItem(d.Cart, logg))
			})

			r.Post("/checkout", controllers.SubmitCheckout(d.Checkout, d.Metrics, logg))
			r.Post("/orders", controllers.CreateOrder(d.Checkout, logg))
		})

		// The wildcard carries the public order code here and the
		// order id on the admin PUT; chi requires one name per slot.
		r.Get("/orders/{orderRef}", controllers.TrackOrder(d.Orders, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.Login(d.Admins, logg))
			if !cfg.App.IsProd() {
				r.Post("/register", controllers.Register(d.Admins, cfg.App, logg))
			}
			r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.Me(logg))
		})

		// Back office.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Get("/products", controllers.AdminProducts(d.Catalog, logg))
				r.Get("/banners", controllers.AdminBanners(d.Content, logg))
				r.Get("/slides", controllers.AdminSlides(d.Content, logg))
				r.Get("/testimonials", controllers.AdminTestimonials(d.Content, logg))
				r.Get("/payment-settings", controllers.AdminPaymentSettings(d.Settings, logg))
			})

			r.Post("/products", controllers.AdminCreateProduct(d.Catalog, logg))
			r.Put("/products/{productRef}", controllers.AdminUpdateProduct(d.Catalog, logg))
			r.Delete("/products/{productRef}", controllers.AdminDeleteProduct(d.Catalog, logg))

			r.Post("/banners", controllers.AdminCreateBanner(d.Content, logg))
			r.Put("/banners/{bannerID}", controllers.AdminUpdateBanner(d.Content, logg))
			r.Delete("/banners/{bannerID}", controllers.AdminDeleteBanner(d.Content, logg))

			r.Post("/slides", controllers.AdminCreateSlide(d.Content, logg))
			r.Put("/slides/{slideID}", controllers.AdminUpdateSlide(d.Content, logg))
			r.Delete("/slides/{slideID}", controllers.AdminDeleteSlide(d.Content, logg))

			r.Post("/testimonials", controllers.AdminCreateTestimonial(d.Content, logg))
			r.Put("/testimonials/{testimonialID}", controllers.AdminUpdateTestimonial(d.Content, logg))
			r.Delete("/testimonials/{testimonialID}", controllers.AdminDeleteTestimonial(d.Content, logg))

			r.Get("/orders", controllers.AdminOrders(d.Orders, logg))
			r.Put("/orders/{orderRef}", controllers.AdminAdvanceOrder(d.Orders, logg))

			r.Put("/payment-settings", controllers.AdminUpdatePaymentSettings(d.Settings, logg))
			r.Put("/site-settings", controllers.AdminUpdateSiteSettings(d.Settings, logg))

			r.Route("/admins", func(r chi.Router) {
				r.Use(middleware.RequireRole("owner", logg))
				r.Get("/", controllers.AdminList(d.Admins, logg))
				r.Post("/", controllers.AdminCreate(d.Admins, logg))
				r.Put("/{adminID}", controllers.AdminUpdate(d.Admins, logg))
				r.Delete("/{adminID}", controllers.AdminDelete(d.Admins, logg))
			})
		})
	})

	return r
}
