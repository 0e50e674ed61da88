package server

import (
	"context"
	"fmt"
	"time"

	"ideavault/internal/api"
	"ideavault/internal/models"
	"ideavault/internal/proof"
	"ideavault/internal/store"
)

const (
	defaultFeedLimit = 20
)

// IdeaService implements idea submission, retrieval, and the reveal
// transition on top of an IdeaStore.
type IdeaService struct {
	store               store.IdeaStore
	titleMaxChars       int
	descriptionMaxChars int
	feedMaxLimit        int
	now                 func() int64
}

// NewIdeaService creates an idea service with the given content limits.
func NewIdeaService(ideaStore store.IdeaStore, titleMax, descriptionMax, feedMax int) *IdeaService {
	if titleMax <= 0 {
		titleMax = models.TitleMaxChars
	}
	if descriptionMax <= 0 {
		descriptionMax = models.DescriptionMaxChars
	}
	if feedMax <= 0 {
		feedMax = 50
	}
	return &IdeaService{
		store:               ideaStore,
		titleMaxChars:       titleMax,
		descriptionMaxChars: descriptionMax,
		feedMaxLimit:        feedMax,
		now:                 func() int64 { return time.Now().UTC().UnixMilli() },
	}
}

// Submit validates and persists a new idea. The proof hash is computed
// server-side over the canonical content, so clients cannot supply one.
func (svc *IdeaService) Submit(ctx context.Context, owner string, req api.IdeaSubmitRequest) (*api.IdeaResponse, error) {
	if owner == "" {
		return nil, authRequired(fmt.Errorf("submitting requires an owner identity"))
	}
	if err := validateTitle(req.Title, svc.titleMaxChars); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description, svc.descriptionMaxChars); err != nil {
		return nil, err
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if err := validateAttachmentRef(req.AttachmentRef); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	id, err := store.GenerateIdeaID(svc.store.IdeaExists)
	if err != nil {
		return nil, storeFailure(err)
	}

	createdAt := svc.now()
	idea := &models.IdeaRecord{
		ID:            id,
		Owner:         owner,
		Title:         req.Title,
		Description:   req.Description,
		AttachmentRef: req.AttachmentRef,
		Status:        status,
		ProofHash:     proof.Fingerprint(req.Title, req.Description, req.AttachmentRef, createdAt, owner),
		CreatedAt:     createdAt,
	}

	if err := svc.store.CreateIdea(ctx, idea, tags); err != nil {
		if isUniqueConstraint(err) {
			return nil, conflictCode(fmt.Errorf("idea id already exists"), ErrCodeIdeaIDExists)
		}
		return nil, storeFailure(err)
	}

	resp := &api.IdeaResponse{IdeaRecord: *idea, Tags: tags}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp, nil
}

// Get returns an idea the caller may see. Hidden ideas of other owners
// are refused as unauthorized, distinct from not found, so clients can
// tell "not yours" apart from "does not exist".
func (svc *IdeaService) Get(ctx context.Context, caller, id string) (*api.IdeaResponse, error) {
	idea, err := svc.store.GetIdea(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if idea == nil {
		return nil, notFound(fmt.Errorf("idea not found: %s", id))
	}
	if !idea.Visible(caller) {
		return nil, unauthorized(fmt.Errorf("idea %s is not visible to the caller", id))
	}
	return svc.respond(ctx, idea)
}

// ListByOwner returns an owner's ideas. Callers other than the owner
// only see public entries.
func (svc *IdeaService) ListByOwner(ctx context.Context, caller, owner string) ([]api.IdeaResponse, error) {
	if owner == "" {
		return nil, badRequestCode(fmt.Errorf("owner is required"), ErrCodeMissingRequired)
	}
	publicOnly := caller == "" || caller != owner
	ideas, err := svc.store.ListIdeasByOwner(ctx, owner, publicOnly)
	if err != nil {
		return nil, storeFailure(err)
	}
	return svc.respondMany(ctx, ideas)
}

// Reveal applies the one-shot reveal_later -> public transition. Only
// the owner may reveal; any repeat or out-of-state call conflicts.
func (svc *IdeaService) Reveal(ctx context.Context, caller, id string) (*api.IdeaResponse, error) {
	idea, err := svc.store.GetIdea(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if idea == nil {
		return nil, notFound(fmt.Errorf("idea not found: %s", id))
	}
	if caller == "" || caller != idea.Owner {
		return nil, unauthorized(fmt.Errorf("only the owner can reveal an idea"))
	}
	if !idea.CanReveal() {
		return nil, invalidTransition(fmt.Errorf("idea is %s and cannot be revealed", idea.Status))
	}

	applied, err := svc.store.RevealIdea(ctx, id, svc.now())
	if err != nil {
		return nil, storeFailure(err)
	}
	if !applied {
		// Lost the race against a concurrent reveal.
		return nil, invalidTransition(fmt.Errorf("idea has already been revealed"))
	}

	revealed, err := svc.store.GetIdea(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if revealed == nil {
		return nil, internalError(fmt.Errorf("idea disappeared during reveal: %s", id))
	}
	return svc.respond(ctx, revealed)
}

// Feed returns one page of the public feed plus the cursor for the next
// page, empty on the last page.
func (svc *IdeaService) Feed(ctx context.Context, query, tag, cursor string, limit int) (*api.FeedResponse, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > svc.feedMaxLimit {
		limit = svc.feedMaxLimit
	}

	filter := store.FeedFilter{Query: query, Tag: tag, Limit: limit + 1}
	if cursor != "" {
		afterCreatedAt, afterID, err := decodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		filter.AfterCreatedAt = afterCreatedAt
		filter.AfterID = afterID
	}

	ideas, err := svc.store.ListPublicFeed(ctx, filter)
	if err != nil {
		return nil, storeFailure(err)
	}

	next := ""
	if len(ideas) > limit {
		ideas = ideas[:limit]
		last := ideas[len(ideas)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}

	entries, err := svc.respondMany(ctx, ideas)
	if err != nil {
		return nil, err
	}
	return &api.FeedResponse{Ideas: entries, NextCursor: next}, nil
}

// Export returns every idea visible to the caller: all of the caller's
// own plus everyone's public ones. Records are collected before tags
// are resolved; the store serializes on a single connection, so nested
// queries while the export rows are open would starve each other.
func (svc *IdeaService) Export(ctx context.Context, caller string) ([]api.IdeaResponse, error) {
	var ideas []models.IdeaRecord
	err := svc.store.ExportIdeas(ctx, caller, func(idea models.IdeaRecord) error {
		ideas = append(ideas, idea)
		return nil
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return svc.respondMany(ctx, ideas)
}

// Stats returns store-wide counters.
func (svc *IdeaService) Stats(ctx context.Context) (*api.StatsResponse, error) {
	stats, err := svc.store.Stats(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	counts, err := svc.store.StatusCounts(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return &api.StatsResponse{
		TotalIdeas:   stats.TotalIdeas,
		PublicIdeas:  stats.PublicIdeas,
		TotalUsers:   stats.TotalUsers,
		StatusCounts: counts,
	}, nil
}

// Tags returns all tags on public ideas.
func (svc *IdeaService) Tags(ctx context.Context) ([]string, error) {
	tags, err := svc.store.ListAllTags(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return tags, nil
}

func (svc *IdeaService) respond(ctx context.Context, idea *models.IdeaRecord) (*api.IdeaResponse, error) {
	tags, err := svc.store.ListTags(ctx, idea.ID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return &api.IdeaResponse{IdeaRecord: *idea, Tags: tags}, nil
}

func (svc *IdeaService) respondMany(ctx context.Context, ideas []models.IdeaRecord) ([]api.IdeaResponse, error) {
	out := make([]api.IdeaResponse, 0, len(ideas))
	if len(ideas) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(ideas))
	for _, idea := range ideas {
		ids = append(ids, idea.ID)
	}
	tagsByID, err := svc.store.ListTagsForIdeas(ctx, ids)
	if err != nil {
		return nil, storeFailure(err)
	}

	for _, idea := range ideas {
		tags := tagsByID[idea.ID]
		if tags == nil {
			tags = []string{}
		}
		out = append(out, api.IdeaResponse{IdeaRecord: idea, Tags: tags})
	}
	return out, nil
}
