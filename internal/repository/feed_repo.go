package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pmoroz/filmrate/internal/db"
	"github.com/pmoroz/filmrate/internal/utils/pagination"
)

// FeedRepository appends and lists activity feed events.
type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(database *gorm.DB) *FeedRepository {
	return &FeedRepository{db: database}
}

// Add appends one event to a user's feed.
//
// Example:
//
//	repo.Add(ctx, 1, 2, db.EventFriend, db.OpAdd) // user 1 befriended user 2
func (r *FeedRepository) Add(ctx context.Context, userID, entityID uint64, eventType, operation string) error {
	event := db.FeedEvent{
		UserID:    userID,
		EntityID:  entityID,
		EventType: eventType,
		Operation: operation,
	}
	return r.db.WithContext(ctx).Create(&event).Error
}

// ListByUser returns a user's feed newest-first with cursor-based
// pagination. The second return is the next page token, nil on the
// last page.
func (r *FeedRepository) ListByUser(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.FeedEvent, *string, error) {
	var events []db.FeedEvent

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.EventID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.EventID,
		)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(events) > limit {
		last := events[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			EventID:     last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		events = events[:limit]
	}

	return events, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
