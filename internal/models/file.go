package models

import "time"

// File binds a display filename to an object stored remotely under StorageKey.
// Rows are created on upload and only ever read afterwards.
type File struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Filename   string    `json:"filename" gorm:"type:varchar(255)" validate:"required"`
	StorageKey string    `json:"storage_key" gorm:"uniqueIndex;type:varchar(512)" validate:"required"`
	PublicURL  string    `json:"public_url" gorm:"type:varchar(1024)" validate:"required"`
	OwnerID    string    `json:"owner_id" gorm:"index;type:varchar(36)" validate:"required"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}
