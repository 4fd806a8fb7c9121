package repositories

import (
	"fmt"
	"projectdrive/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFileRepository is a GORM implementation of FileRepository.
type GORMFileRepository struct {
	db *gorm.DB
}

// NewGORMFileRepository creates a new instance of GORMFileRepository.
func NewGORMFileRepository(db *gorm.DB) *GORMFileRepository {
	return &GORMFileRepository{
		db: db,
	}
}

// Create persists a new file record in the database.
func (r *GORMFileRepository) Create(file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}
	return nil
}

// ListByOwner retrieves all file records owned by the given user.
// The result order is unspecified; callers may sort.
func (r *GORMFileRepository) ListByOwner(ownerID string) ([]models.File, error) {
	var files []models.File
	if err := r.db.Find(&files, "owner_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to list files for owner %s: %w", ownerID, err)
	}
	return files, nil
}

// GetByKey retrieves a file record by its storage key.
func (r *GORMFileRepository) GetByKey(storageKey string) (*models.File, error) {
	var file models.File
	if err := r.db.First(&file, "storage_key = ?", storageKey).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("file with key %s not found", storageKey)
		}
		return nil, fmt.Errorf("failed to get file by key %s: %w", storageKey, err)
	}
	return &file, nil
}

// GetByKeyAndOwner retrieves a file record by storage key, scoped to its owner.
// A record owned by someone else is indistinguishable from a missing one.
func (r *GORMFileRepository) GetByKeyAndOwner(storageKey, ownerID string) (*models.File, error) {
	var file models.File
	if err := r.db.First(&file, "storage_key = ? AND owner_id = ?", storageKey, ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("file with key %s not found", storageKey)
		}
		return nil, fmt.Errorf("failed to get file by key %s: %w", storageKey, err)
	}
	return &file, nil
}
