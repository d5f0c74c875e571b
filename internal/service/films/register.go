package films

import (
	"github.com/go-chi/chi/v5"

	"github.com/pmoroz/filmrate/internal/app"
)

// Registrar ties the Films service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Films service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Films service handlers to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewFilmService(reg.appCtx)

	r.Route("/films", func(r chi.Router) {
		r.Post("/", s.CreateFilm)
		r.Get("/", s.ListFilms)
		r.Get("/popular", s.Popular)
		r.Get("/common", s.Common)
		r.Get("/{id}", s.GetFilm)
		r.Put("/{id}/like/{userId}", s.AddLike)
		r.Delete("/{id}/like/{userId}", s.RemoveLike)
		r.Get("/{id}/likes", s.ListLikes)
		r.Get("/{id}/likes/count", s.CountLikes)
	})
}
