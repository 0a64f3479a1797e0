package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/platform/vision"
	"github.com/stackcare/stackcare-backend/internal/types"
)

// maxRecognitionImageBytes caps uploads before they reach the classifier.
const maxRecognitionImageBytes = 8 << 20

// RecognitionService turns a label photo into catalog resolutions: classify
// the image, then resolve each candidate product. The classifier is optional
// at wiring time; without one the endpoint reports the feature as unavailable.
type RecognitionService interface {
	RecognizeAndResolve(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) ([]*types.Resolution, error)
}

type recognitionService struct {
	db         *gorm.DB
	log        *logger.Logger
	classifier vision.Classifier
	resolver   EntityResolver
}

func NewRecognitionService(
	db *gorm.DB,
	log *logger.Logger,
	classifier vision.Classifier,
	resolver EntityResolver,
) RecognitionService {
	return &recognitionService{
		db:         db,
		log:        log.With("service", "RecognitionService"),
		classifier: classifier,
		resolver:   resolver,
	}
}

func (rs *recognitionService) RecognizeAndResolve(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) ([]*types.Resolution, error) {
	if rs.classifier == nil {
		return nil, fmt.Errorf("%w: image recognition is not configured", errors.ErrInvalidArgument)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image payload is empty", errors.ErrInvalidArgument)
	}
	if len(image) > maxRecognitionImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", errors.ErrInvalidArgument, maxRecognitionImageBytes)
	}

	products, err := rs.classifier.ClassifyImage(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("classify image: %w", err)
	}
	if len(products) == 0 {
		return []*types.Resolution{}, nil
	}

	resolutions := make([]*types.Resolution, 0, len(products))
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, product := range products {
			resolution, err := rs.resolver.Resolve(ctx, tx, userID, product)
			if err != nil {
				return err
			}
			resolutions = append(resolutions, resolution)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rs.log.Info("image resolved",
		"user_id", userID,
		"products", len(products),
		"resolutions", len(resolutions))
	return resolutions, nil
}
