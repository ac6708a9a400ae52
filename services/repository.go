package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitness-progression-system/models"

	"gorm.io/gorm"
)

const persistenceTimeout = 5 * time.Second

// ProgressRepository loads and stores per-user progress records. The engine
// batches a whole ApplyXP mutation — updated record plus its new ledger
// entries — into one Save call so a failure leaves nothing half-written.
type ProgressRepository interface {
	LoadOrCreate(ctx context.Context, externalUserID string) (*models.UserProgress, error)
	Save(ctx context.Context, progress *models.UserProgress, newEvents []models.XPEvent) error
}

// GormProgressRepository is the postgres-backed repository.
type GormProgressRepository struct {
	DB *gorm.DB
}

func NewGormProgressRepository(db *gorm.DB) *GormProgressRepository {
	return &GormProgressRepository{DB: db}
}

// LoadOrCreate fetches the user's progress row, inserting the default
// record on first access (idempotent).
func (r *GormProgressRepository) LoadOrCreate(ctx context.Context, externalUserID string) (*models.UserProgress, error) {
	ctx, cancel := context.WithTimeout(ctx, persistenceTimeout)
	defer cancel()

	var prog models.UserProgress
	err := r.DB.WithContext(ctx).Where("external_user_id = ?", externalUserID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := models.NewUserProgress(externalUserID)
		if err := r.DB.WithContext(ctx).Create(fresh).Error; err != nil {
			return nil, fmt.Errorf("%w: creating progress for %s: %v", ErrPersistence, externalUserID, err)
		}
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading progress for %s: %v", ErrPersistence, externalUserID, err)
	}
	return &prog, nil
}

// Save writes the progress row and appends the ledger entries in a single
// transaction.
func (r *GormProgressRepository) Save(ctx context.Context, progress *models.UserProgress, newEvents []models.XPEvent) error {
	ctx, cancel := context.WithTimeout(ctx, persistenceTimeout)
	defer cancel()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(progress).Error; err != nil {
			return err
		}
		if len(newEvents) > 0 {
			if err := tx.Create(&newEvents).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: saving progress for %s: %v", ErrPersistence, progress.ExternalUserID, err)
	}
	return nil
}
