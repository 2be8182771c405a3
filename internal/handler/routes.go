package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mickael234/projet-psah-sub003/internal/middleware"
)

// Routes returns the API router. /healthz, /auth/login and /auth/register are
// public; every other route requires a bearer token verified by verifier.
func (s *Server) Routes(verifier middleware.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorBody(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorBody(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Post("/auth/login", s.Login)
	r.Post("/auth/register", s.Register)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthenticator(verifier))

		r.Post("/personnel", s.CreatePersonnel)

		r.Route("/ride-requests", func(r chi.Router) {
			r.Post("/", s.CreateRideRequest)
			r.Get("/", s.ListRideRequests)
			r.Get("/{id}", s.GetRideRequest)
			r.Delete("/{id}", s.CancelRideRequest)
			r.Post("/{id}/accept", s.AcceptRideRequest)
			r.Post("/{id}/refuse", s.RefuseRideRequest)
		})

		r.Route("/rides", func(r chi.Router) {
			r.Post("/", s.CreateRide)
			r.Get("/{id}", s.GetRide)
			r.Patch("/{id}/status", s.UpdateRideStatus)
			r.Patch("/{id}/schedule", s.RescheduleRide)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", s.CreateDocument)
			r.Post("/upload", s.UploadDocument)
			r.Get("/", s.ListDocuments)
			r.Patch("/{id}/validation", s.ValidateDocument)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", s.CreateReservation)
			r.Get("/", s.ListReservations)
			r.Get("/{id}", s.GetReservation)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", s.CreateReview)
			r.Get("/", s.ListReviews)
			r.Patch("/{id}/response", s.RespondReview)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", s.CreateTicket)
			r.Get("/", s.ListTickets)
			r.Get("/{id}", s.GetTicket)
			r.Patch("/{id}/assignment", s.AssignTicket)
			r.Post("/{id}/close", s.CloseTicket)
		})
	})
	return r
}
