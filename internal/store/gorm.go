package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/proposal/internal/models"
)

// GormStore keeps proposals in a SQL database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection. The schema must already be migrated.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, p *models.Proposal) error {
	rec := p.Clone()
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.ExpiresAt = rec.ExpiresAt.UTC()
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create proposal %s: %w", p.ID, err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Proposal, error) {
	var p models.Proposal
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get proposal %s: %w", id, err)
	}
	return &p, nil
}

func (s *GormStore) Update(ctx context.Context, id string, f Fields) error {
	cols := f.columns()
	if len(cols) == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Model(&models.Proposal{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update proposal %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AppendGuess(ctx context.Context, id, guess string, correct bool) (*models.Proposal, error) {
	var p models.Proposal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Where("id = ?", id).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		p.Guesses = append(p.Guesses, guess)
		p.GuessesUsed = len(p.Guesses)
		p.GuessedCorrectly = p.GuessedCorrectly || correct

		return tx.Model(&p).
			Select("guesses", "guesses_used", "guessed_correctly").
			Updates(&p).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("append guess to proposal %s: %w", id, err)
	}
	return &p, nil
}

func (s *GormStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", before.UTC()).Delete(&models.Proposal{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired proposals: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
