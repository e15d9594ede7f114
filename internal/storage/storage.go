package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ArchiveStorage defines the interface for object storage of analysis
// transcripts (raw prompt + raw model response, keyed by analysis id).
// Transcripts are observability data: saving one is best-effort and must
// never fail the analysis that produced it.
type ArchiveStorage interface {
	// SaveTranscript stores the transcript body under the given object key.
	SaveTranscript(ctx context.Context, objectKey string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for reading a transcript directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
