package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pmoroz/filmrate/internal/db"
	apperr "github.com/pmoroz/filmrate/internal/errors"
)

// FilmRepository provides the thin film lookups the services need.
type FilmRepository struct {
	db *gorm.DB
}

func NewFilmRepository(database *gorm.DB) *FilmRepository {
	return &FilmRepository{db: database}
}

func (r *FilmRepository) Create(ctx context.Context, film *db.Film) error {
	return r.db.WithContext(ctx).Create(film).Error
}

func (r *FilmRepository) Get(ctx context.Context, filmID uint64) (*db.Film, error) {
	var film db.Film
	err := r.db.WithContext(ctx).Where("id = ?", filmID).Take(&film).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("film does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &film, nil
}

func (r *FilmRepository) Exists(ctx context.Context, filmID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Film{}).
		Where("id = ?", filmID).
		Count(&count).Error
	return count > 0, err
}

func (r *FilmRepository) List(ctx context.Context) ([]db.Film, error) {
	var films []db.Film
	err := r.db.WithContext(ctx).Order("id ASC").Find(&films).Error
	return films, err
}

// GetMany loads films by id, ascending. Dangling ids are skipped so a
// like pointing at a deleted film reads as absent rather than failing.
func (r *FilmRepository) GetMany(ctx context.Context, ids []uint64) ([]db.Film, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var films []db.Film
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&films).Error
	return films, err
}
