package services

import (
	"context"
	"strings"

	"trego/internal/apperr"
	"trego/internal/models"
	"trego/internal/repositories"
)

// FeedbackService collects product ratings.
type FeedbackService struct {
	feedback repositories.FeedbackRepository
	catalog  CatalogReader
}

func NewFeedbackService(feedback repositories.FeedbackRepository, catalog CatalogReader) *FeedbackService {
	return &FeedbackService{feedback: feedback, catalog: catalog}
}

// Submit stores a 1 to 5 rating with an optional comment for an existing product.
func (s *FeedbackService) Submit(ctx context.Context, caller models.Principal, productID string, rating int, comment string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.InvalidArgument("rating must be between 1 and 5")
	}
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	fb := &models.Feedback{
		UserID:    caller.UserID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// List returns all feedback to callers allowed to see it and the caller's own otherwise.
func (s *FeedbackService) List(ctx context.Context, caller models.Principal) ([]models.Feedback, error) {
	if caller.Can(models.CapViewAllFeedback) {
		return s.feedback.ListAll(ctx)
	}
	return s.feedback.ListByUser(ctx, caller.UserID)
}
