package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmoroz/filmrate/internal/db"
	"github.com/pmoroz/filmrate/internal/recommend"
)

// LikeRepository provides data access for film likes.
type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// AddLike records that a user liked a film. Re-liking is a no-op:
// the composite PK plus DoNothing keeps at most one row per pair.
// Returns whether a new like was actually recorded, so callers can
// keep derived counters honest.
func (r *LikeRepository) AddLike(ctx context.Context, filmID, userID uint64) (bool, error) {
	like := db.FilmLike{FilmID: filmID, UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "film_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&like)
	return res.RowsAffected > 0, res.Error
}

// RemoveLike deletes a like. Removing a missing like is a no-op.
// Returns whether a row was actually deleted.
func (r *LikeRepository) RemoveLike(ctx context.Context, filmID, userID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("film_id = ? AND user_id = ?", filmID, userID).
		Delete(&db.FilmLike{})
	return res.RowsAffected > 0, res.Error
}

// ListLikes returns the ids of users who liked a film, ascending.
func (r *LikeRepository) ListLikes(ctx context.Context, filmID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.FilmLike{}).
		Where("film_id = ?", filmID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListLikedFilms returns the ids of films a user liked, ascending.
func (r *LikeRepository) ListLikedFilms(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.FilmLike{}).
		Where("user_id = ?", userID).
		Order("film_id ASC").
		Pluck("film_id", &ids).Error
	return ids, err
}

// CountLikes returns how many users liked the given film.
// Used in conjunction with the Redis cache (DB is fallback).
func (r *LikeRepository) CountLikes(ctx context.Context, filmID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.FilmLike{}).
		Where("film_id = ?", filmID).
		Count(&count).Error
	return count, err
}

// CountsByFilm returns like counts for every film with at least one
// like. Films absent from the map have zero likes.
func (r *LikeRepository) CountsByFilm(ctx context.Context) (map[uint64]int, error) {
	var rows []struct {
		FilmID uint64
		N      int
	}
	err := r.db.WithContext(ctx).
		Model(&db.FilmLike{}).
		Select("film_id, COUNT(user_id) AS n").
		Group("film_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint64]int, len(rows))
	for _, row := range rows {
		counts[row.FilmID] = row.N
	}
	return counts, nil
}

// Snapshot loads the full user -> liked-films mapping for the
// recommendation engine.
func (r *LikeRepository) Snapshot(ctx context.Context) (recommend.Likes, error) {
	var rows []db.FilmLike
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	likes := make(recommend.Likes)
	for _, row := range rows {
		set, ok := likes[row.UserID]
		if !ok {
			set = make(map[uint64]struct{})
			likes[row.UserID] = set
		}
		set[row.FilmID] = struct{}{}
	}
	return likes, nil
}
