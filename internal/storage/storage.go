package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the object storage operations used for invite QR cards.
type FileStorage interface {
	// PutObject stores body under objectKey, replacing any previous object.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

// InviteQRKey is the object key of the QR card for an invite code.
func InviteQRKey(groupID, code string) string {
	return "invites/" + groupID + "/" + code + ".png"
}
