package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/exsplitter/internal/models"
	"github.com/mmynk/exsplitter/internal/storage"
)

// AddMember inserts a new member into a trip.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMember(ctx, tx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertMember rejects a name already used in the trip, ignoring case.
// Callers run it inside a transaction.
func insertMember(ctx context.Context, q queryer, member *models.Member) error {
	member.Name = models.NormalizeName(member.Name)
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	var exists int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM members WHERE trip_id = ? AND name = ? COLLATE NOCASE",
		member.TripID, member.Name,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%q: %w", member.Name, storage.ErrDuplicateMember)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check member name: %w", err)
	}

	_, err = q.ExecContext(ctx,
		"INSERT INTO members (id, trip_id, name, created_at) VALUES (?, ?, ?, ?)",
		member.ID, member.TripID, member.Name, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	return nil
}

// ListMembers retrieves a trip's members in the order they joined.
func (s *SQLiteStore) ListMembers(ctx context.Context, tripID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trip_id, name, created_at FROM members WHERE trip_id = ? ORDER BY created_at, rowid",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(&member.ID, &member.TripID, &member.Name, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// LookupMemberName returns the display name of a member, falling back to
// models.UnknownMemberName when the ID is not found.
func (s *SQLiteStore) LookupMemberName(ctx context.Context, memberID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM members WHERE id = ?", memberID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UnknownMemberName, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up member: %w", err)
	}
	return name, nil
}
