package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/passkeep/passkeep-go/internal/model"
	"github.com/passkeep/passkeep-go/internal/repository"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrPasswordRequired = errors.New(msgPasswordRequired)
)

// Store is the replicated persistence the vault service works against.
// Modify runs fn and the write under the store lock; a write that some tier
// rejected returns an error wrapping repository.ErrPartialWrite.
type Store interface {
	ReadAny(ctx context.Context) []model.StoredService
	Modify(ctx context.Context, fn func([]model.StoredService) ([]model.StoredService, error)) ([]model.StoredService, error)
}

// VaultService handles the stored service list business logic.
type VaultService struct {
	backend SimulatedBackend
}

// NewVaultService creates a new VaultService gated by backend.
func NewVaultService(backend SimulatedBackend) *VaultService {
	return &VaultService{backend: backend}
}

// List returns the stored services whose name contains query, ignoring case
// and surrounding whitespace.
func (s *VaultService) List(ctx context.Context, store Store, query string) []model.StoredService {
	return Filter(store.ReadAny(ctx), query)
}

// Filter keeps services whose name contains the trimmed query, ignoring case.
func Filter(services []model.StoredService, query string) []model.StoredService {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return services
	}

	result := make([]model.StoredService, 0, len(services))
	for _, svc := range services {
		if strings.Contains(strings.ToLower(svc.ServiceName), q) {
			result = append(result, svc)
		}
	}
	return result
}

// Add validates and stores a new service. Nothing is persisted when the
// backend call fails. The name is trimmed; duplicates are checked again
// under the store lock before saving.
func (s *VaultService) Add(ctx context.Context, store Store, req model.CreateServiceRequest) ([]model.StoredService, error) {
	entry := model.StoredService{
		ServiceName:     strings.TrimSpace(req.ServiceName),
		ServicePassword: req.ServicePassword,
	}
	if err := validateNew(entry, store.ReadAny(ctx)); err != nil {
		return nil, err
	}

	if err := s.backend.Call(ctx); err != nil {
		return nil, err
	}

	services, err := store.Modify(ctx, func(current []model.StoredService) ([]model.StoredService, error) {
		if err := validateNew(entry, current); err != nil {
			return nil, err
		}
		return append(current, entry), nil
	})
	return s.saved(services, err, "service stored with tier failures", entry.ServiceName)
}

// Update replaces the password of an existing service.
func (s *VaultService) Update(ctx context.Context, store Store, name string, req model.UpdateServiceRequest) ([]model.StoredService, error) {
	if req.ServicePassword == "" {
		return nil, ErrPasswordRequired
	}
	if !contains(store.ReadAny(ctx), name) {
		return nil, ErrServiceNotFound
	}

	if err := s.backend.Call(ctx); err != nil {
		return nil, err
	}

	services, err := store.Modify(ctx, func(current []model.StoredService) ([]model.StoredService, error) {
		for i := range current {
			if current[i].ServiceName == name {
				current[i].ServicePassword = req.ServicePassword
				return current, nil
			}
		}
		return nil, ErrServiceNotFound
	})
	return s.saved(services, err, "service updated with tier failures", name)
}

// Delete removes a service. Nothing is removed when the backend call fails.
func (s *VaultService) Delete(ctx context.Context, store Store, name string) ([]model.StoredService, error) {
	if !contains(store.ReadAny(ctx), name) {
		return nil, ErrServiceNotFound
	}

	if err := s.backend.Call(ctx); err != nil {
		return nil, err
	}

	services, err := store.Modify(ctx, func(current []model.StoredService) ([]model.StoredService, error) {
		if !contains(current, name) {
			return nil, ErrServiceNotFound
		}
		next := make([]model.StoredService, 0, len(current)-1)
		for _, svc := range current {
			if svc.ServiceName != name {
				next = append(next, svc)
			}
		}
		return next, nil
	})
	return s.saved(services, err, "service removed with tier failures", name)
}

// saved reports the list after a Modify. Tiers that accepted a partial write
// keep it, so that case is logged and treated as success.
func (s *VaultService) saved(services []model.StoredService, err error, msg, name string) ([]model.StoredService, error) {
	if errors.Is(err, repository.ErrPartialWrite) {
		slog.Warn(msg, "service", name, "error", err)
		return services, nil
	}
	if err != nil {
		return nil, err
	}
	return services, nil
}

func validateNew(entry model.StoredService, current []model.StoredService) error {
	if errs := Validate(ServicePayload{
		ServiceName:     entry.ServiceName,
		ServicePassword: entry.ServicePassword,
		ExistingNames:   model.Names(current),
	}); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func contains(services []model.StoredService, name string) bool {
	for _, svc := range services {
		if svc.ServiceName == name {
			return true
		}
	}
	return false
}
