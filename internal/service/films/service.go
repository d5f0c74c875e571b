package films

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pmoroz/filmrate/internal/app"
	"github.com/pmoroz/filmrate/internal/db"
	apperr "github.com/pmoroz/filmrate/internal/errors"
	"github.com/pmoroz/filmrate/internal/ranking"
	"github.com/pmoroz/filmrate/internal/repository"
	"github.com/pmoroz/filmrate/internal/web"
)

// defaultPopularCount is the page size when the caller does not pass
// an explicit count.
const defaultPopularCount = 10

// Service implements the Films HTTP API: film lookups, likes with a
// cached counter, and vote-count popularity rankings.
type Service struct {
	appCtx *app.AppContext
	films  *repository.FilmRepository
	users  *repository.UserRepository
	likes  *repository.LikeRepository
	feed   *repository.FeedRepository
}

// NewFilmService creates a new Films service with dependencies from
// AppContext.
func NewFilmService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		films:  repository.NewFilmRepository(appCtx.DB),
		users:  repository.NewUserRepository(appCtx.DB),
		likes:  repository.NewLikeRepository(appCtx.DB),
		feed:   repository.NewFeedRepository(appCtx.DB),
	}
}

type createFilmRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ReleaseYear int    `json:"release_year"`
	Duration    int    `json:"duration"`
	MpaRating   string `json:"mpa_rating"`
	Genre       string `json:"genre"`
}

func (s *Service) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var req createFilmRequest
	if err := web.DecodeBody(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	if req.Name == "" {
		web.WriteError(w, apperr.InvalidArgument("name is required"))
		return
	}
	if req.Duration <= 0 {
		web.WriteError(w, apperr.InvalidArgument("duration must be positive"))
		return
	}

	film := &db.Film{
		Name:        req.Name,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
		Duration:    req.Duration,
		MpaRating:   req.MpaRating,
		Genre:       req.Genre,
	}
	if err := s.films.Create(r.Context(), film); err != nil {
		s.appCtx.Logger.Error("CreateFilm failed", "err", err)
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, film)
}

func (s *Service) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	film, err := s.films.Get(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, film)
}

func (s *Service) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.films.List(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, films)
}

// AddLike records a like and bumps the cached counter. Re-liking the
// same film leaves both the row and the counter untouched.
func (s *Service) AddLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, userID, err := s.parseLikePair(ctx, r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	s.appCtx.Logger.Debug("AddLike called", "film", filmID, "user", userID)

	added, err := s.likes.AddLike(ctx, filmID, userID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if added {
		if err := s.appCtx.RedisCache.IncrFilmLikes(ctx, filmID, 1); err != nil {
			s.appCtx.Logger.Warn("like counter update failed", "film", filmID, "err", err)
		}
		if err := s.feed.Add(ctx, userID, filmID, db.EventLike, db.OpAdd); err != nil {
			s.appCtx.Logger.Warn("feed append failed", "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveLike deletes a like and decrements the cached counter when a
// row was actually removed.
func (s *Service) RemoveLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, userID, err := s.parseLikePair(ctx, r)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	s.appCtx.Logger.Debug("RemoveLike called", "film", filmID, "user", userID)

	removed, err := s.likes.RemoveLike(ctx, filmID, userID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if removed {
		if err := s.appCtx.RedisCache.IncrFilmLikes(ctx, filmID, -1); err != nil {
			s.appCtx.Logger.Warn("like counter update failed", "film", filmID, "err", err)
		}
		if err := s.feed.Add(ctx, userID, filmID, db.EventLike, db.OpRemove); err != nil {
			s.appCtx.Logger.Warn("feed append failed", "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLikes returns the ids of users who liked a film.
func (s *Service) ListLikes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	ids, err := s.likes.ListLikes(ctx, filmID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	web.WriteJSON(w, http.StatusOK, ids)
}

type likeCountResponse struct {
	FilmID uint64 `json:"film_id"`
	Count  int64  `json:"count"`
}

// CountLikes returns how many users liked the film.
// Cache-first strategy:
//  1. Attempts to read the Redis counter.
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, repopulates Redis with a fresh TTL.
func (s *Service) CountLikes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filmID, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	if count, hit, err := s.appCtx.RedisCache.GetFilmLikes(ctx, filmID); err == nil && hit {
		web.WriteJSON(w, http.StatusOK, likeCountResponse{FilmID: filmID, Count: count})
		return
	}

	count, err := s.likes.CountLikes(ctx, filmID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.appCtx.RedisCache.SetFilmLikes(ctx, filmID, count); err != nil {
		s.appCtx.Logger.Warn("like counter repopulate failed", "film", filmID, "err", err)
	}

	web.WriteJSON(w, http.StatusOK, likeCountResponse{FilmID: filmID, Count: count})
}

// Popular returns the top-N films by like count. Optional genre and
// year query parameters narrow the candidate set before ranking.
func (s *Service) Popular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := web.ParseQueryInt(r, "count", defaultPopularCount)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	genre := r.URL.Query().Get("genre")
	year, err := web.ParseQueryInt(r, "year", 0)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	films, err := s.films.List(ctx)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	likeCounts, err := s.likes.CountsByFilm(ctx)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	var filter func(db.Film) bool
	if genre != "" || year != 0 {
		filter = func(f db.Film) bool {
			if genre != "" && f.Genre != genre {
				return false
			}
			if year != 0 && f.ReleaseYear != year {
				return false
			}
			return true
		}
	}

	top, err := ranking.Rank(films,
		func(f db.Film) uint64 { return f.ID },
		func(f db.Film) int { return likeCounts[f.ID] },
		filter,
		count,
	)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if top == nil {
		top = []db.Film{}
	}
	web.WriteJSON(w, http.StatusOK, top)
}

// Common returns the films both users liked, most popular first.
func (s *Service) Common(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := web.ParseQueryID(r, "userId")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	friendID, err := web.ParseQueryID(r, "friendId")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	mine, err := s.likes.ListLikedFilms(ctx, userID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	theirs, err := s.likes.ListLikedFilms(ctx, friendID)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	seen := make(map[uint64]struct{}, len(mine))
	for _, id := range mine {
		seen[id] = struct{}{}
	}
	var shared []uint64
	for _, id := range theirs {
		if _, ok := seen[id]; ok {
			shared = append(shared, id)
		}
	}

	films, err := s.films.GetMany(ctx, shared)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if len(films) == 0 {
		web.WriteJSON(w, http.StatusOK, []db.Film{})
		return
	}

	likeCounts, err := s.likes.CountsByFilm(ctx)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	top, err := ranking.Rank(films,
		func(f db.Film) uint64 { return f.ID },
		func(f db.Film) int { return likeCounts[f.ID] },
		nil,
		len(films),
	)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, top)
}

// parseLikePair validates the film and user of a like mutation.
// Dangling ids fail fast before anything is written.
func (s *Service) parseLikePair(ctx context.Context, r *http.Request) (uint64, uint64, error) {
	filmID, err := web.ParseID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := web.ParseID(r, "userId")
	if err != nil {
		return 0, 0, err
	}

	if ok, err := s.films.Exists(ctx, filmID); err != nil {
		return 0, 0, err
	} else if !ok {
		return 0, 0, apperr.NotFound(fmt.Sprintf("film %d does not exist", filmID))
	}
	if ok, err := s.users.Exists(ctx, userID); err != nil {
		return 0, 0, err
	} else if !ok {
		return 0, 0, apperr.NotFound(fmt.Sprintf("user %d does not exist", userID))
	}
	return filmID, userID, nil
}
