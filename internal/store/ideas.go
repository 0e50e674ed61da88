package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"ideavault/internal/models"
)

// FeedFilter narrows the public feed query. After* carry the decoded
// cursor position: entries strictly after (createdAt DESC, id ASC) order.
type FeedFilter struct {
	Query          string
	Tag            string
	AfterCreatedAt int64
	AfterID        string
	Limit          int
}

// StatsResult aggregates the store-wide counters.
type StatsResult struct {
	TotalIdeas  int `json:"total_ideas"`
	PublicIdeas int `json:"public_ideas"`
	TotalUsers  int `json:"total_users"`
}

// CreateIdea inserts an idea with optional tags. The record must arrive
// fully formed (id, proof hash, created_at already assigned); readers
// never observe a partially written idea because insert and tags commit
// in one transaction.
func (s *Store) CreateIdea(ctx context.Context, idea *models.IdeaRecord, tags []string) error {
	if idea == nil {
		return fmt.Errorf("idea is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ideas (
			id, owner, title, description, attachment_ref, status, is_revealed, proof_hash, created_at, revealed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		idea.ID,
		idea.Owner,
		idea.Title,
		idea.Description,
		nullIfEmpty(idea.AttachmentRef),
		string(idea.Status),
		boolToInt(idea.IsRevealed),
		idea.ProofHash,
		idea.CreatedAt,
		nullMillis(idea.RevealedAt),
	)
	if err != nil {
		return err
	}

	if err = insertTags(ctx, tx, idea.ID, tags); err != nil {
		return err
	}

	return tx.Commit()
}

// GetIdea returns an idea by id, or nil when unknown.
func (s *Store) GetIdea(ctx context.Context, id string) (*models.IdeaRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, title, description, attachment_ref, status, is_revealed, proof_hash, created_at, revealed_at
		FROM ideas WHERE id = ?
	`, id)
	return scanIdea(row)
}

// ListIdeasByOwner returns an owner's ideas ordered newest first. With
// publicOnly set, hidden and private ideas are excluded.
func (s *Store) ListIdeasByOwner(ctx context.Context, owner string, publicOnly bool) ([]models.IdeaRecord, error) {
	query := `
		SELECT id, owner, title, description, attachment_ref, status, is_revealed, proof_hash, created_at, revealed_at
		FROM ideas WHERE owner = ?
	`
	args := []any{owner}
	if publicOnly {
		query += " AND status = ?"
		args = append(args, string(models.StatusPublic))
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectIdeas(rows)
}

// RevealIdea applies the one-shot reveal transition. The UPDATE is
// guarded on the current state, so of any number of racing calls exactly
// one observes applied == true; the rest see the already-transitioned
// row. Ownership is checked by the caller before invoking this.
func (s *Store) RevealIdea(ctx context.Context, id string, revealedAt int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ideas
		SET status = ?, is_revealed = 1, revealed_at = ?
		WHERE id = ? AND status = ? AND is_revealed = 0
	`, string(models.StatusPublic), revealedAt, id, string(models.StatusRevealLater))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ListPublicFeed returns public ideas matching the filter, ordered by
// (created_at DESC, id ASC). Callers pass limit+1 to detect a next page.
func (s *Store) ListPublicFeed(ctx context.Context, filter FeedFilter) ([]models.IdeaRecord, error) {
	query := `
		SELECT id, owner, title, description, attachment_ref, status, is_revealed, proof_hash, created_at, revealed_at
		FROM ideas
	`
	where := []string{"status = ?"}
	args := []any{string(models.StatusPublic)}

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		where = append(where, "(title LIKE ? ESCAPE '\\' OR description LIKE ? ESCAPE '\\')")
		args = append(args, pattern, pattern)
	}
	if filter.Tag != "" {
		where = append(where, "id IN (SELECT idea_id FROM idea_tags WHERE tag = ?)")
		args = append(args, filter.Tag)
	}
	if filter.AfterID != "" {
		where = append(where, "(created_at < ? OR (created_at = ? AND id > ?))")
		args = append(args, filter.AfterCreatedAt, filter.AfterCreatedAt, filter.AfterID)
	}

	query += " WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY created_at DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectIdeas(rows)
}

// Stats recomputes the aggregate counters from the ideas table.
func (s *Store) Stats(ctx context.Context) (StatsResult, error) {
	var stats StatsResult
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT owner)
		FROM ideas
	`, string(models.StatusPublic)).Scan(&stats.TotalIdeas, &stats.PublicIdeas, &stats.TotalUsers)
	return stats, err
}

// StatusCounts returns the number of ideas per status.
func (s *Store) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM ideas GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ListTags returns tags for an idea.
func (s *Store) ListTags(ctx context.Context, ideaID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tag FROM idea_tags WHERE idea_id = ? ORDER BY tag ASC", ideaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// ListAllTags returns all tags attached to public ideas.
func (s *Store) ListAllTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT t.tag FROM idea_tags t
		JOIN ideas i ON i.id = t.idea_id
		WHERE i.status = ?
		ORDER BY t.tag ASC
	`, string(models.StatusPublic))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// ListTagsForIdeas returns tags mapped by idea id.
func (s *Store) ListTagsForIdeas(ctx context.Context, ids []string) (map[string][]string, error) {
	tags := make(map[string][]string)
	if len(ids) == 0 {
		return tags, nil
	}

	query := fmt.Sprintf("SELECT idea_id, tag FROM idea_tags WHERE idea_id IN (%s)", placeholders(len(ids)))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ideaID, tag string
		if err := rows.Scan(&ideaID, &tag); err != nil {
			return nil, err
		}
		tags[ideaID] = append(tags[ideaID], tag)
	}

	for _, list := range tags {
		sort.Strings(list)
	}

	return tags, rows.Err()
}

// ExportIdeas streams every idea visible to owner (their own plus all
// public ones) through fn, newest first.
func (s *Store) ExportIdeas(ctx context.Context, owner string, fn func(models.IdeaRecord) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, title, description, attachment_ref, status, is_revealed, proof_hash, created_at, revealed_at
		FROM ideas
		WHERE status = ? OR owner = ?
		ORDER BY created_at DESC, id ASC
	`, string(models.StatusPublic), owner)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return err
		}
		if idea == nil {
			continue
		}
		if err := fn(*idea); err != nil {
			return err
		}
	}
	return rows.Err()
}

func collectIdeas(rows *sql.Rows) ([]models.IdeaRecord, error) {
	var ideas []models.IdeaRecord
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, *idea)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ideas, nil
}

func scanIdea(scanner interface {
	Scan(dest ...any) error
}) (*models.IdeaRecord, error) {
	var idea models.IdeaRecord
	var attachmentRef sql.NullString
	var status string
	var isRevealed int
	var revealedAt sql.NullInt64

	if err := scanner.Scan(
		&idea.ID,
		&idea.Owner,
		&idea.Title,
		&idea.Description,
		&attachmentRef,
		&status,
		&isRevealed,
		&idea.ProofHash,
		&idea.CreatedAt,
		&revealedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	idea.AttachmentRef = attachmentRef.String
	idea.Status = models.IdeaStatus(status)
	idea.IsRevealed = isRevealed != 0
	if revealedAt.Valid {
		value := revealedAt.Int64
		idea.RevealedAt = &value
	}

	return &idea, nil
}

func insertTags(ctx context.Context, tx *sql.Tx, ideaID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	values := make([]string, len(tags))
	args := make([]any, 0, len(tags)*2)
	for i, tag := range tags {
		values[i] = "(?, ?)"
		args = append(args, ideaID, tag)
	}
	_, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO idea_tags (idea_id, tag) VALUES "+strings.Join(values, ","), args...)
	return err
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimRight(strings.Repeat("?,", count), ",")
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullMillis(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	value = strings.ReplaceAll(value, "_", `\_`)
	return value
}
