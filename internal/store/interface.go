package store

import (
	"context"

	"ideavault/internal/models"
)

// IdeaStore abstracts idea storage so the service layer is testable
// against any backend.
type IdeaStore interface {
	IdeaExists(id string) (bool, error)
	CreateIdea(ctx context.Context, idea *models.IdeaRecord, tags []string) error
	GetIdea(ctx context.Context, id string) (*models.IdeaRecord, error)
	ListIdeasByOwner(ctx context.Context, owner string, publicOnly bool) ([]models.IdeaRecord, error)
	RevealIdea(ctx context.Context, id string, revealedAt int64) (bool, error)
	ListPublicFeed(ctx context.Context, filter FeedFilter) ([]models.IdeaRecord, error)
	Stats(ctx context.Context) (StatsResult, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
	ListTags(ctx context.Context, ideaID string) ([]string, error)
	ListAllTags(ctx context.Context) ([]string, error)
	ListTagsForIdeas(ctx context.Context, ids []string) (map[string][]string, error)
	ExportIdeas(ctx context.Context, owner string, fn func(models.IdeaRecord) error) error
}

// AuthStore abstracts user and session storage.
type AuthStore interface {
	CountEnabledUsers(ctx context.Context) (int, error)
	GetUserByUsername(ctx context.Context, username string) (*AuthUser, error)
	CreateSession(ctx context.Context, userID, tokenHash string, expiresAt, now int64) error
	GetUserBySessionTokenHash(ctx context.Context, tokenHash string, now int64) (*AuthUser, error)
	RevokeSessionByTokenHash(ctx context.Context, tokenHash string, now int64) error
}

// AttachmentStore abstracts attachment metadata storage.
type AttachmentStore interface {
	UpsertAttachment(ctx context.Context, att Attachment) error
	GetAttachment(ctx context.Context, digest string) (*Attachment, error)
}

var (
	_ IdeaStore       = (*Store)(nil)
	_ AuthStore       = (*Store)(nil)
	_ AttachmentStore = (*Store)(nil)
)
