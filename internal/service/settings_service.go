package service

import (
	"context"
	"strings"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/util"

	"go.uber.org/zap"
)

// SettingsService handles the single-row cafeteria settings
type SettingsService struct {
	store  Store
	logger *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(store Store) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// GetSettings returns the current settings
func (s *SettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	return s.store.GetSettings(ctx)
}

// SaveSettings validates and upserts the settings row
func (s *SettingsService) SaveSettings(ctx context.Context, settings *models.Settings) error {
	ctx, span := util.StartSpan(ctx, "SettingsService.SaveSettings")
	defer span.End()

	if strings.TrimSpace(settings.Name) == "" {
		return &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return err
	}

	s.logger.Info("Settings saved", zap.String("name", settings.Name))
	return nil
}
