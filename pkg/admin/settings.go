package admin

import (
	"context"

	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/repository"
	"go.uber.org/zap"
)

type SettingsManager struct {
	store  CatalogStore
	audit  repository.AuditRecorder
	logger *zap.Logger
}

func NewSettingsManager(store CatalogStore, audit repository.AuditRecorder, logger *zap.Logger) *SettingsManager {
	return &SettingsManager{store: store, audit: audit, logger: logger.Named("admin.settings")}
}

func (m *SettingsManager) Get(ctx context.Context) (models.Settings, error) {
	return m.store.Settings(ctx)
}

// Save replaces the stored settings object.
func (m *SettingsManager) Save(ctx context.Context, s models.Settings) error {
	if err := m.store.SaveSettings(ctx, s); err != nil {
		return err
	}
	m.logger.Info("Settings saved", zap.String("site_title", s.SiteTitle))
	record(ctx, m.audit, m.logger, "save_settings", "settings", nil)
	return nil
}
