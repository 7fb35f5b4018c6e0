package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/middleware"
	"github.com/atinyakov/RentVerify/internal/models"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth     *AuthHandler
	Listings *ListingHandler
	Profile  *ProfileHandler
	Requests *RequestHandler
	Intake   *IntakeHandler
}

// NewRouter constructs the HTTP handler of the RentVerify API. A non-nil
// limiter throttles login and signup per client address.
//
// Routes:
//
//	POST /api/auth/login|signup        public, rate limited
//	GET  /api/listings[/{id}]          public
//	*    /api/auth/logout|session      session required
//	*    /api/profile                  session required
//	*    /api/tenant/...               tenant role required
//	*    /api/landlord/...             landlord role required
//	GET  /health
//
// Role checks steer clients to the right screens; ownership of each
// request is enforced by the services.
func NewRouter(h Handlers, sessions middleware.SessionResolver, limiter *middleware.RateLimiter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))
			if limiter != nil {
				r.Use(middleware.RateLimit(limiter, middleware.IPKey))
			}
			r.Post("/auth/login", h.Auth.Login)
			r.Post("/auth/signup", h.Auth.Signup)
		})

		r.Get("/listings", h.Listings.List)
		r.Get("/listings/{id}", h.Listings.Get)

		// Protected group: requires a live session token
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(sessions))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/session", h.Auth.Session)
			r.Get("/profile", h.Profile.Get)
			r.Put("/profile", h.Profile.Update)

			r.Route("/tenant", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleTenant))

				r.Post("/request", h.Requests.Create)
				r.Get("/requests", h.Requests.ListMine)
				r.Get("/request/{id}", h.Requests.GetMine)
				r.Put("/request/{id}", h.Requests.UpdateMine)
				r.Delete("/request/{id}", h.Requests.DeleteMine)

				r.Post("/intake", h.Intake.Start)
				r.Get("/intake/{id}", h.Intake.Get)
				r.Delete("/intake/{id}", h.Intake.Discard)
				r.Post("/intake/{id}/next", h.Intake.Next)
				r.Post("/intake/{id}/back", h.Intake.Back)
				r.Post("/intake/{id}/submit", h.Intake.Submit)
			})

			r.Route("/landlord", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleLandlord))

				r.Get("/requests", h.Requests.ListAll)
				r.Get("/request/{id}", h.Requests.GetAny)
				r.Put("/request/{id}/review", h.Requests.Review)
				r.Put("/request/{id}/approve", h.Requests.Approve)
				r.Put("/request/{id}/reject", h.Requests.Reject)
				r.Put("/request/{id}/more-info", h.Requests.MoreInfo)
			})
		})
	})

	return r
}
