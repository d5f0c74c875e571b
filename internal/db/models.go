package db

import (
	"time"
)

// User account. Friendships live in FriendEdge, not here.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Login        string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	Name         string `gorm:"size:128"`
	PasswordHash string `gorm:"size:255;not null"`
	Birthday     time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Film catalogue entry. Genre and MpaRating are opaque grouping labels;
// popularity is derived from FilmLike rows, never stored here.
type Film struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"size:200"`
	ReleaseYear int    `gorm:"index"`
	Duration    int    `gorm:"not null"`
	MpaRating   string `gorm:"size:16"`
	Genre       string `gorm:"size:64;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// FriendEdge is a directed friend request from UserID to FriendID.
//
// Composite PK: (UserID, FriendID) — a single row per direction.
// Mutual is true iff the reverse row also exists; the graph layer owns
// that invariant, the table just stores both directions independently.
type FriendEdge struct {
	UserID    uint64    `gorm:"primaryKey"`
	FriendID  uint64    `gorm:"primaryKey"`
	Mutual    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// FilmLike marks that a user liked a film. Composite PK makes the
// add idempotent: at most one row per (film, user) pair.
type FilmLike struct {
	FilmID    uint64    `gorm:"primaryKey;index:idx_like_user_film,priority:2"`
	UserID    uint64    `gorm:"primaryKey;index:idx_like_user_film,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Review of a film. Useful is the signed sum of ReviewVote values,
// recomputed on read; gorm never persists it.
type Review struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Content   string `gorm:"size:200;not null"`
	Positive  bool   `gorm:"not null"`
	UserID    uint64 `gorm:"not null;index"`
	FilmID    uint64 `gorm:"not null;index"`
	Useful    int    `gorm:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ReviewVote is one voter's +1/-1 on a review.
//
// Composite PK: (ReviewID, UserID) — overwrite guarantee, so a voter
// flips between like and dislike but never double-counts.
type ReviewVote struct {
	ReviewID  uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"primaryKey"`
	Value     int8      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// FeedEvent is an append-only activity record shown on a user's feed.
type FeedEvent struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index:idx_feed_user_created,priority:1"`
	EntityID  uint64    `gorm:"not null"`
	EventType string    `gorm:"size:16;not null"`
	Operation string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_feed_user_created,priority:2,sort:desc"`
}

// Feed event types and operations.
const (
	EventFriend = "FRIEND"
	EventLike   = "LIKE"
	EventReview = "REVIEW"

	OpAdd    = "ADD"
	OpUpdate = "UPDATE"
	OpRemove = "REMOVE"
)
