package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmoroz/filmrate/internal/db"
	"github.com/pmoroz/filmrate/internal/graph"
)

// FriendRepository persists directed friend edges. It implements
// graph.EdgeStore so the graph's state transitions run unchanged over
// the database backend.
type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(database *gorm.DB) *FriendRepository {
	return &FriendRepository{db: database}
}

var _ graph.EdgeStore = (*FriendRepository)(nil)

func (r *FriendRepository) Get(ctx context.Context, from, to uint64) (graph.Edge, bool, error) {
	var e db.FriendEdge
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", from, to).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return graph.Edge{}, false, nil
	}
	if err != nil {
		return graph.Edge{}, false, err
	}
	return graph.Edge{From: e.UserID, To: e.FriendID, Mutual: e.Mutual}, true, nil
}

// Put inserts the edge or updates its mutual flag.
// Composite PK upsert gives the overwrite guarantee.
func (r *FriendRepository) Put(ctx context.Context, e graph.Edge) error {
	edge := db.FriendEdge{
		UserID:   e.From,
		FriendID: e.To,
		Mutual:   e.Mutual,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"mutual"}),
		}).
		Create(&edge).Error
}

func (r *FriendRepository) Delete(ctx context.Context, from, to uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", from, to).
		Delete(&db.FriendEdge{}).Error
}

func (r *FriendRepository) ListFrom(ctx context.Context, from uint64) ([]graph.Edge, error) {
	var rows []db.FriendEdge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", from).
		Order("friend_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	edges := make([]graph.Edge, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, graph.Edge{From: row.UserID, To: row.FriendID, Mutual: row.Mutual})
	}
	return edges, nil
}
