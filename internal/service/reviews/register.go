package reviews

import (
	"github.com/go-chi/chi/v5"

	"github.com/pmoroz/filmrate/internal/app"
)

// Registrar ties the Reviews service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Reviews service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Reviews service handlers to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewReviewService(reg.appCtx)

	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", s.CreateReview)
		r.Put("/", s.UpdateReview)
		r.Get("/", s.ListReviews)
		r.Get("/{id}", s.GetReview)
		r.Delete("/{id}", s.DeleteReview)
		r.Put("/{id}/like/{userId}", s.AddVote(1))
		r.Put("/{id}/dislike/{userId}", s.AddVote(-1))
		r.Delete("/{id}/like/{userId}", s.RemoveVote(1))
		r.Delete("/{id}/dislike/{userId}", s.RemoveVote(-1))
	})
}
