package db

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates 20 users with hashed passwords and 30 films across a
//     handful of genres and years.
//  3. Generates likes (skewed so a few films are clearly popular),
//     friendship edges with correct mutual flags, and a sprinkling of
//     reviews with votes.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{
		"feed_events", "review_votes", "reviews", "film_likes", "friend_edges", "films", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if db.Dialector.Name() == "mysql" {
		for _, table := range []string{"feed_events", "reviews", "films", "users"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	}

	// --- Users ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		users = append(users, User{
			ID:           uint64(i),
			Login:        fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			Name:         fmt.Sprintf("User %d", i),
			PasswordHash: string(hash),
			Birthday:     time.Date(1980+i, time.January, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// --- Films ---
	genres := []string{"drama", "comedy", "thriller", "sci-fi", "documentary"}
	ratings := []string{"G", "PG", "PG-13", "R"}
	films := make([]Film, 0, 30)
	for i := 1; i <= 30; i++ {
		films = append(films, Film{
			ID:          uint64(i),
			Name:        fmt.Sprintf("Film %d", i),
			Description: fmt.Sprintf("Demo film number %d", i),
			ReleaseYear: 1990 + i,
			Duration:    80 + r.Intn(90),
			MpaRating:   ratings[r.Intn(len(ratings))],
			Genre:       genres[i%len(genres)],
		})
	}
	if err := db.Create(&films).Error; err != nil {
		return fmt.Errorf("failed to seed films: %w", err)
	}

	// --- Likes: low film ids get more likes so rankings look real ---
	for _, f := range films {
		likers := r.Intn(int(21 - f.ID%20))
		for u := 1; u <= likers; u++ {
			db.Create(&FilmLike{FilmID: f.ID, UserID: uint64(u)})
		}
	}

	// --- Friendships: ring of mutual pairs plus pending extras ---
	for i := 1; i <= 10; i++ {
		a, b := uint64(i), uint64(i%10+1)
		db.Create(&FriendEdge{UserID: a, FriendID: b, Mutual: true})
		db.Create(&FriendEdge{UserID: b, FriendID: a, Mutual: true})
	}
	for i := 11; i <= 15; i++ {
		db.Create(&FriendEdge{UserID: uint64(i), FriendID: uint64(i - 10), Mutual: false})
	}

	// --- Reviews with votes ---
	for i := 1; i <= 10; i++ {
		review := Review{
			Content:  fmt.Sprintf("Demo review %d", i),
			Positive: i%3 != 0,
			UserID:   uint64(i),
			FilmID:   uint64(i * 2),
		}
		if err := db.Create(&review).Error; err != nil {
			return fmt.Errorf("failed to seed review: %w", err)
		}
		for v := 1; v <= r.Intn(6); v++ {
			value := int8(1)
			if r.Intn(4) == 0 {
				value = -1
			}
			db.Create(&ReviewVote{ReviewID: review.ID, UserID: uint64(10 + v), Value: value})
		}
	}

	return nil
}
