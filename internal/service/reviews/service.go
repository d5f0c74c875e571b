package reviews

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

// defaultTopCount is the page size for useful-ranked listings when
// the caller does not pass an explicit count.
const defaultTopCount = 10

// Service implements the Reviews HTTP API: review CRUD, signed +1/-1
// votes, and usefulness-ranked listings.
type Service struct {
	appCtx  *app.AppContext
	reviews *repository.ReviewRepository
	users   *repository.UserRepository
	films   *repository.FilmRepository
	feed    *repository.FeedRepository
}

// NewReviewService creates a new Reviews service with dependencies
// from AppContext.
func NewReviewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		reviews: repository.NewReviewRepository(appCtx.DB),
		users:   repository.NewUserRepository(appCtx.DB),
		films:   repository.NewFilmRepository(appCtx.DB),
		feed:    repository.NewFeedRepository(appCtx.DB),
	}
}

type createReviewRequest struct {
	Content  string `json:"content"`
	Positive *bool  `json:"positive"`
	UserID   uint64 `json:"user_id"`
	FilmID   uint64 `json:"film_id"`
}

func (s *Service) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createReviewRequest
	if err := web.DecodeBody(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	if req.Content == "" {
		web.WriteError(w, apperr.InvalidArgument("content is required"))
		return
	}
	if req.Positive == nil {
		web.WriteError(w, apperr.InvalidArgument("positive is required"))
		return
	}
	if err := s.requireFilm(ctx, req.FilmID); err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.requireUser(ctx, req.UserID); err != nil {
		web.WriteError(w, err)
		return
	}

	review := &db.Review{
		Content:  req.Content,
		Positive: *req.Positive,
		UserID:   req.UserID,
		FilmID:   req.FilmID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		s.appCtx.Logger.Error("CreateReview failed", "err", err)
		web.WriteError(w, err)
		return
	}
	if err := s.feed.Add(ctx, review.UserID, review.ID, db.EventReview, db.OpAdd); err != nil {
		s.appCtx.Logger.Warn("feed append failed", "err", err)
	}
	web.WriteJSON(w, http.StatusCreated, review)
}

type updateReviewRequest struct {
	ID       uint64 `json:"id"`
	Content  string `json:"content"`
	Positive *bool  `json:"positive"`
}

func (s *Service) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateReviewRequest
	if err := web.DecodeBody(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	if req.Content == "" {
		web.WriteError(w, apperr.InvalidArgument("content is required"))
		return
	}
	if req.Positive == nil {
		web.WriteError(w, apperr.InvalidArgument("positive is required"))
		return
	}

	existing, err := s.reviews.Get(ctx, req.ID)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	existing.Content = req.Content
	existing.Positive = *req.Positive
	if err := s.reviews.Update(ctx, existing); err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.feed.Add(ctx, existing.UserID, existing.ID, db.EventReview, db.OpUpdate); err != nil {
		s.appCtx.Logger.Warn("feed append failed", "err", err)
	}

	updated, err := s.reviews.Get(ctx, req.ID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, updated)
}

func (s *Service) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	review, err := s.reviews.Get(ctx, id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.feed.Add(ctx, review.UserID, id, db.EventReview, db.OpRemove); err != nil {
		s.appCtx.Logger.Warn("feed append failed", "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	review, err := s.reviews.Get(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, review)
}

// ListReviews returns the top-N most useful reviews, optionally
// narrowed to one film via the filmId query parameter.
func (s *Service) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := web.ParseQueryInt(r, "count", defaultTopCount)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	var reviews []db.Review
	if raw := r.URL.Query().Get("filmId"); raw != "" {
		filmID, err := web.ParseQueryID(r, "filmId")
		if err != nil {
			web.WriteError(w, err)
			return
		}
		if err := s.requireFilm(ctx, filmID); err != nil {
			web.WriteError(w, err)
			return
		}
		reviews, err = s.reviews.ListByFilm(ctx, filmID)
		if err != nil {
			web.WriteError(w, err)
			return
		}
	} else {
		reviews, err = s.reviews.ListAll(ctx)
		if err != nil {
			web.WriteError(w, err)
			return
		}
	}

	sums, err := s.reviews.UsefulSums(ctx)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	top, err := ranking.Rank(reviews,
		func(rv db.Review) uint64 { return rv.ID },
		func(rv db.Review) int { return sums[rv.ID] },
		nil,
		count,
	)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	for i := range top {
		top[i].Useful = sums[top[i].ID]
	}
	if top == nil {
		top = []db.Review{}
	}
	web.WriteJSON(w, http.StatusOK, top)
}

// AddVote handles both the like and dislike endpoints; value is +1 or
// -1. A voter flipping sides overwrites the previous vote.
func (s *Service) AddVote(value int8) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reviewID, userID, err := s.parseVotePair(ctx, r)
		if err != nil {
			web.WriteError(w, err)
			return
		}

		s.appCtx.Logger.Debug("AddVote called", "review", reviewID, "user", userID, "value", value)

		if err := s.reviews.PutVote(ctx, reviewID, userID, value); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveVote removes a vote of the given sign only.
func (s *Service) RemoveVote(value int8) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reviewID, userID, err := s.parseVotePair(ctx, r)
		if err != nil {
			web.WriteError(w, err)
			return
		}

		if err := s.reviews.RemoveVote(ctx, reviewID, userID, value); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Service) parseVotePair(ctx context.Context, r *http.Request) (uint64, uint64, error) {
	reviewID, err := web.ParseID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := web.ParseID(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	if _, err := s.reviews.Get(ctx, reviewID); err != nil {
		return 0, 0, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return 0, 0, err
	}
	return reviewID, userID, nil
}

func (s *Service) requireUser(ctx context.Context, id uint64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(fmt.Sprintf("user %d does not exist", id))
	}
	return nil
}

func (s *Service) requireFilm(ctx context.Context, id uint64) error {
	ok, err := s.films.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(fmt.Sprintf("film %d does not exist", id))
	}
	return nil
}
