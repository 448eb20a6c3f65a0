package repositories

import (
	"context"
	"fmt"

	"trego/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackRepository defines the interface for feedback data access.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListAll(ctx context.Context) ([]models.Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]models.Feedback, error)
}

// GORMFeedbackRepository is a GORM implementation of FeedbackRepository.
type GORMFeedbackRepository struct {
	db *gorm.DB
}

func NewGORMFeedbackRepository(db *gorm.DB) *GORMFeedbackRepository {
	return &GORMFeedbackRepository{db: db}
}

func (r *GORMFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *GORMFeedbackRepository) ListAll(ctx context.Context) ([]models.Feedback, error) {
	var out []models.Feedback
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return out, nil
}

func (r *GORMFeedbackRepository) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	var out []models.Feedback
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback for user %s: %w", userID, err)
	}
	return out, nil
}
