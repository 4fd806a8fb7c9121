package repositories

import "projectdrive/internal/models"

// FileRepository defines the interface for file metadata access.
type FileRepository interface {
	Create(file *models.File) error
	ListByOwner(ownerID string) ([]models.File, error)
	GetByKey(storageKey string) (*models.File, error)
	GetByKeyAndOwner(storageKey, ownerID string) (*models.File, error)
}
