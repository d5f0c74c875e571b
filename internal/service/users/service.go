package users

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pmoroz/filmrate/internal/app"
	"github.com/pmoroz/filmrate/internal/db"
	apperr "github.com/pmoroz/filmrate/internal/errors"
	"github.com/pmoroz/filmrate/internal/graph"
	"github.com/pmoroz/filmrate/internal/recommend"
	"github.com/pmoroz/filmrate/internal/repository"
	"github.com/pmoroz/filmrate/internal/web"
)

// Service implements the Users HTTP API: user lookups, friendship
// management through the graph state machine, the activity feed, and
// film recommendations.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	films  *repository.FilmRepository
	likes  *repository.LikeRepository
	feed   *repository.FeedRepository
	graph  *graph.Graph
}

// NewUserService creates a new Users service with dependencies from
// AppContext. The friend graph runs over the DB-backed edge store, so
// the persisted edges are the source of truth across restarts.
func NewUserService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		films:  repository.NewFilmRepository(appCtx.DB),
		likes:  repository.NewLikeRepository(appCtx.DB),
		feed:   repository.NewFeedRepository(appCtx.DB),
		graph:  graph.New(repository.NewFriendRepository(appCtx.DB)),
	}
}

type createUserRequest struct {
	Email string `json:"email"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

func (s *Service) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := web.DecodeBody(r, &req); err != nil {
		web.WriteError(w, err)
		return
	}
	if req.Email == "" || req.Login == "" {
		web.WriteError(w, apperr.InvalidArgument("email and login are required"))
		return
	}

	user := &db.User{Email: req.Email, Login: req.Login, Name: req.Name}
	if err := s.users.Create(r.Context(), user); err != nil {
		s.appCtx.Logger.Error("CreateUser failed", "err", err)
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, user)
}

func (s *Service) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, user)
}

func (s *Service) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		web.WriteError(w, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, users)
}

// AddFriend records a friend request. A reverse pending request makes
// the pair mutual; re-requests are no-ops.
func (s *Service) AddFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, friendID, err := s.parseFriendPair(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.requireUsers(ctx, id, friendID); err != nil {
		web.WriteError(w, err)
		return
	}

	s.appCtx.Logger.Debug("AddFriend called", "user", id, "friend", friendID)

	if err := s.graph.RequestFriend(ctx, id, friendID); err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.feed.Add(ctx, id, friendID, db.EventFriend, db.OpAdd); err != nil {
		s.appCtx.Logger.Warn("feed append failed", "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFriend deletes the outgoing edge; a mutual pair downgrades to
// a pending reverse request.
func (s *Service) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, friendID, err := s.parseFriendPair(r)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.requireUsers(ctx, id, friendID); err != nil {
		web.WriteError(w, err)
		return
	}

	s.appCtx.Logger.Debug("RemoveFriend called", "user", id, "friend", friendID)

	if err := s.graph.RemoveFriend(ctx, id, friendID); err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.feed.Add(ctx, id, friendID, db.EventFriend, db.OpRemove); err != nil {
		s.appCtx.Logger.Warn("feed append failed", "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFriends returns everyone the user has requested or is mutual
// with. An empty list is a normal outcome, not an error.
func (s *Service) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.requireUsers(ctx, id); err != nil {
		web.WriteError(w, err)
		return
	}

	ids, err := s.graph.FriendsOf(ctx, id)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	friends, err := s.users.GetMany(ctx, ids)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if friends == nil {
		friends = []db.User{}
	}
	web.WriteJSON(w, http.StatusOK, friends)
}

// CommonFriends returns the intersection of two users' friend lists.
func (s *Service) CommonFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	otherID, err := web.ParseID(r, "otherId")
	if err != nil {
		web.WriteError(w, err)
		return
	}

	ids, err := s.graph.CommonFriends(ctx, id, otherID)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	common, err := s.users.GetMany(ctx, ids)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if common == nil {
		common = []db.User{}
	}
	web.WriteJSON(w, http.StatusOK, common)
}

type feedResponse struct {
	Events              []db.FeedEvent `json:"events"`
	NextPaginationToken *string        `json:"next_pagination_token,omitempty"`
}

// Feed returns the user's activity feed, newest first, with cursor
// pagination.
func (s *Service) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	limit, err := web.ParseQueryInt(r, "limit", 20)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if limit < 1 {
		web.WriteError(w, apperr.InvalidArgument("limit must be positive"))
		return
	}

	var token *string
	if raw := r.URL.Query().Get("pageToken"); raw != "" {
		token = &raw
	}

	events, next, err := s.feed.ListByUser(ctx, id, token, limit)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if events == nil {
		events = []db.FeedEvent{}
	}
	web.WriteJSON(w, http.StatusOK, feedResponse{Events: events, NextPaginationToken: next})
}

// Recommendations suggests films via the nearest-neighbor engine over
// a full like snapshot. An empty list means no similar user shares any
// liked film.
func (s *Service) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := web.ParseID(r, "id")
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if err := s.requireUsers(ctx, id); err != nil {
		web.WriteError(w, err)
		return
	}

	snapshot, err := s.likes.Snapshot(ctx)
	if err != nil {
		web.WriteError(w, err)
		return
	}

	filmIDs := recommend.Recommend(id, snapshot)
	films, err := s.films.GetMany(ctx, filmIDs)
	if err != nil {
		web.WriteError(w, err)
		return
	}
	if films == nil {
		films = []db.Film{}
	}

	s.appCtx.Logger.Debug("Recommendations result", "user", id, "count", len(films))

	web.WriteJSON(w, http.StatusOK, films)
}

func (s *Service) parseFriendPair(r *http.Request) (uint64, uint64, error) {
	id, err := web.ParseID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	friendID, err := web.ParseID(r, "friendId")
	if err != nil {
		return 0, 0, err
	}
	return id, friendID, nil
}

// requireUsers fails with NotFound when any of the ids does not exist.
func (s *Service) requireUsers(ctx context.Context, ids ...uint64) error {
	for _, id := range ids {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound(fmt.Sprintf("user %d does not exist", id))
		}
	}
	return nil
}
