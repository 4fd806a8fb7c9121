package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"projectdrive/internal/models"
	"projectdrive/internal/repositories"
	"projectdrive/pkg/objectstore"
	"projectdrive/pkg/rabbitmq"
)

const (
	// listSignTTL is how long the signed URLs attached to a listing stay valid.
	listSignTTL = 24 * time.Hour
	// downloadSignTTL keeps download redirects short-lived.
	downloadSignTTL = 60 * time.Second
)

// DriveService handles business logic for uploading, listing and downloading files.
type DriveService struct {
	fileRepo repositories.FileRepository
	store    objectstore.Store
	mqClient *rabbitmq.Client // RabbitMQ client, may be nil
}

// NewDriveService creates a new DriveService.
func NewDriveService(fileRepo repositories.FileRepository, store objectstore.Store, mqClient *rabbitmq.Client) *DriveService {
	return &DriveService{
		fileRepo: fileRepo,
		store:    store,
		mqClient: mqClient,
	}
}

// ListedFile is a file record enriched with a freshly signed URL.
// SignedURL is nil when signing failed for that item.
type ListedFile struct {
	models.File
	SignedURL *string `json:"signed_url"`
}

// Upload stores the file content remotely and persists a record binding it to
// its owner. The storage key embeds an upload timestamp to disambiguate
// repeated filenames; the remote write itself is an upsert.
func (s *DriveService) Upload(ctx context.Context, ownerID, filename string, data []byte, contentType string) (*models.File, error) {
	key := fmt.Sprintf("uploads/%d_%s", time.Now().UnixMilli(), filename)

	// Same-millisecond uploads of one filename collide on the derived key.
	// Check before writing so the loser cannot overwrite the winner's object.
	if existing, err := s.fileRepo.GetByKey(key); err == nil && existing != nil {
		return nil, fmt.Errorf("storage key '%s' already exists", key)
	}

	stored, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file %s: %w", filename, err)
	}

	file := &models.File{
		Filename:   filename,
		StorageKey: stored.Key,
		PublicURL:  stored.PublicURL,
		OwnerID:    ownerID,
		UploadedAt: time.Now(),
	}

	if err := s.fileRepo.Create(file); err != nil {
		// The remote object is orphaned at this point. We accept the drift
		// rather than attempting a best-effort delete that can itself fail.
		log.Printf("Warning: uploaded object %s has no file record: %v", stored.Key, err)
		return nil, fmt.Errorf("failed to save file record for %s: %w", filename, err)
	}

	// Publish an event to RabbitMQ for the upload. Event delivery is
	// best-effort and never fails the request.
	if s.mqClient != nil {
		event := map[string]interface{}{
			"fileID":     file.ID,
			"filename":   file.Filename,
			"storageKey": file.StorageKey,
			"ownerID":    file.OwnerID,
		}
		if err := s.mqClient.PublishFileUploaded(event); err != nil {
			log.Printf("Warning: Failed to publish file uploaded event for %s: %v", file.ID, err)
		}
	} else {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
	}

	return file, nil
}

// ListFiles returns all files owned by ownerID, each with a signed URL valid
// for 24 hours. A signing failure on one item leaves its SignedURL nil and
// does not fail the listing.
func (s *DriveService) ListFiles(ctx context.Context, ownerID string) ([]ListedFile, error) {
	files, err := s.fileRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	listed := make([]ListedFile, 0, len(files))
	for _, file := range files {
		item := ListedFile{File: file}
		signedURL, err := s.store.SignURL(ctx, file.StorageKey, listSignTTL)
		if err != nil {
			log.Printf("Warning: failed to sign URL for %s: %v", file.StorageKey, err)
		} else {
			item.SignedURL = &signedURL
		}
		listed = append(listed, item)
	}
	return listed, nil
}

// DownloadURL verifies that ownerID owns the file stored under storageKey and
// returns a 60-second signed URL for it. A missing record and a record owned
// by someone else produce the same "access denied" error so callers cannot
// probe for existence.
func (s *DriveService) DownloadURL(ctx context.Context, ownerID, storageKey string) (string, error) {
	if _, err := s.fileRepo.GetByKeyAndOwner(storageKey, ownerID); err != nil {
		return "", fmt.Errorf("access denied")
	}

	signedURL, err := s.store.SignURL(ctx, storageKey, downloadSignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL for %s: %w", storageKey, err)
	}
	return signedURL, nil
}
