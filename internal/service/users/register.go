package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/pmoroz/filmrate/internal/app"
)

// Registrar ties the Users service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Users service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Users service handlers to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewUserService(reg.appCtx)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.CreateUser)
		r.Get("/", s.ListUsers)
		r.Get("/{id}", s.GetUser)
		r.Put("/{id}/friends/{friendId}", s.AddFriend)
		r.Delete("/{id}/friends/{friendId}", s.RemoveFriend)
		r.Get("/{id}/friends", s.ListFriends)
		r.Get("/{id}/friends/common/{otherId}", s.CommonFriends)
		r.Get("/{id}/feed", s.Feed)
		r.Get("/{id}/recommendations", s.Recommendations)
	})
}
