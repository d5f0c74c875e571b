package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmoroz/filmrate/internal/db"
	apperr "github.com/pmoroz/filmrate/internal/errors"
)

// ReviewRepository provides data access for reviews and their votes.
type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(database *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: database}
}

func (r *ReviewRepository) Create(ctx context.Context, review *db.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Update rewrites the mutable review fields. The target film and
// author never change after creation.
func (r *ReviewRepository) Update(ctx context.Context, review *db.Review) error {
	res := r.db.WithContext(ctx).
		Model(&db.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"content":  review.Content,
			"positive": review.Positive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("review does not exist")
	}
	return nil
}

// Delete removes a review and all of its votes.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", reviewID).Delete(&db.ReviewVote{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", reviewID).Delete(&db.Review{}).Error
	})
}

// Get returns a review with its useful score populated.
func (r *ReviewRepository) Get(ctx context.Context, reviewID uint64) (*db.Review, error) {
	var review db.Review
	err := r.db.WithContext(ctx).Where("id = ?", reviewID).Take(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("review does not exist")
	}
	if err != nil {
		return nil, err
	}
	sums, err := r.UsefulSums(ctx)
	if err != nil {
		return nil, err
	}
	review.Useful = sums[review.ID]
	return &review, nil
}

// ListAll returns every review; ListByFilm narrows to one film.
// Useful scores are left zero here, callers rank via UsefulSums.
func (r *ReviewRepository) ListAll(ctx context.Context) ([]db.Review, error) {
	var reviews []db.Review
	err := r.db.WithContext(ctx).Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) ListByFilm(ctx context.Context, filmID uint64) ([]db.Review, error) {
	var reviews []db.Review
	err := r.db.WithContext(ctx).Where("film_id = ?", filmID).Find(&reviews).Error
	return reviews, err
}

// PutVote upserts a voter's +1/-1 on a review. A voter who flips from
// like to dislike overwrites the previous row, never adding to it.
func (r *ReviewRepository) PutVote(ctx context.Context, reviewID, userID uint64, value int8) error {
	if value != 1 && value != -1 {
		return apperr.InvalidArgument("vote value must be +1 or -1")
	}
	vote := db.ReviewVote{ReviewID: reviewID, UserID: userID, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&vote).Error
}

// RemoveVote deletes a voter's vote only when it matches the given
// sign, so removing a "like" cannot silently erase a dislike.
func (r *ReviewRepository) RemoveVote(ctx context.Context, reviewID, userID uint64, value int8) error {
	q := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID)
	if value > 0 {
		q = q.Where("value > 0")
	} else {
		q = q.Where("value < 0")
	}
	return q.Delete(&db.ReviewVote{}).Error
}

// ListVotes returns the active vote of each voter on a review.
func (r *ReviewRepository) ListVotes(ctx context.Context, reviewID uint64) (map[uint64]int8, error) {
	var votes []db.ReviewVote
	err := r.db.WithContext(ctx).Where("review_id = ?", reviewID).Find(&votes).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]int8, len(votes))
	for _, v := range votes {
		out[v.UserID] = v.Value
	}
	return out, nil
}

// UsefulSums returns the signed vote sum per review id. Reviews with
// no votes are absent and score zero.
func (r *ReviewRepository) UsefulSums(ctx context.Context) (map[uint64]int, error) {
	var rows []struct {
		ReviewID uint64
		Useful   int
	}
	err := r.db.WithContext(ctx).
		Model(&db.ReviewVote{}).
		Select("review_id, SUM(value) AS useful").
		Group("review_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[uint64]int, len(rows))
	for _, row := range rows {
		sums[row.ReviewID] = row.Useful
	}
	return sums, nil
}
