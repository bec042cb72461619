package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/passkeep/passkeep-go/internal/model"
)

// StorageKey is the key the service list is stored under in every tier.
const StorageKey = "services"

// Backend is one storage tier holding a full copy of the service list.
type Backend interface {
	// Name identifies the tier in logs.
	Name() string
	// Read returns the stored list. Missing or malformed data reads as empty.
	Read(ctx context.Context) []model.StoredService
	// Write replaces the stored list.
	Write(ctx context.Context, services []model.StoredService) error
}

func encodeServices(services []model.StoredService) (string, error) {
	if services == nil {
		services = []model.StoredService{}
	}
	b, err := json.Marshal(services)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeServices parses raw, treating empty or malformed content as no data.
func decodeServices(tier, raw string) []model.StoredService {
	if raw == "" {
		return nil
	}
	var services []model.StoredService
	if err := json.Unmarshal([]byte(raw), &services); err != nil {
		slog.Debug("ignoring malformed stored services", "tier", tier, "error", err)
		return nil
	}
	return services
}
