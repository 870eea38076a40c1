package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/example/learning-center-scheduler/internal/persistence"
)

const sessionColumns = `id, session_date, start_seconds, end_seconds, room_id, teacher_id, class_id, status, is_makeup_class, created_at, updated_at`

// SessionRepository implements persistence.SessionRepository using SQLite
type SessionRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	now    func() time.Time
}

// NewSessionRepository creates a new SQLite session repository
func NewSessionRepository(pool *ConnectionPool, now func() time.Time) *SessionRepository {
	if now == nil {
		now = time.Now
	}
	return &SessionRepository{pool: pool, mapper: NewErrorMapper(), now: now}
}

// CreateSessions inserts the batch in one transaction. Every non-cancelled
// session is checked against the stored sessions of its room, including the
// ones inserted earlier in the same batch, so either all rows land or none.
func (r *SessionRepository) CreateSessions(ctx context.Context, sessions []persistence.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	for _, s := range sessions {
		if err := validateSession(s); err != nil {
			return err
		}
	}

	now := formatTimestamp(r.now())
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, s := range sessions {
			if err := r.ensureRoomFree(ctx, tx, s); err != nil {
				return err
			}
			created, updated := now, now
			if !s.CreatedAt.IsZero() {
				created = formatTimestamp(s.CreatedAt)
			}
			if !s.UpdatedAt.IsZero() {
				updated = formatTimestamp(s.UpdatedAt)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sessions (`+sessionColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				s.ID, s.Date.String(), s.StartSeconds, s.EndSeconds,
				s.RoomID, s.TeacherID, s.ClassID, s.Status, s.IsMakeupClass,
				created, updated,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

// UpdateSession replaces a stored session. The room check ignores the
// session's own stored row.
func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.Session) error {
	if err := validateSession(session); err != nil {
		return err
	}

	updated := session.UpdatedAt
	if updated.IsZero() {
		updated = r.now()
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := r.ensureRoomFree(ctx, tx, session); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE sessions
			SET session_date = ?, start_seconds = ?, end_seconds = ?, room_id = ?, teacher_id = ?,
				class_id = ?, status = ?, is_makeup_class = ?, updated_at = ?
			WHERE id = ?`,
			session.Date.String(), session.StartSeconds, session.EndSeconds, session.RoomID, session.TeacherID,
			session.ClassID, session.Status, session.IsMakeupClass, formatTimestamp(updated),
			session.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// GetSession retrieves a session by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.Session, error) {
	if id == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}
	row := r.pool.DB().QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}
	return session, nil
}

// DeleteSession removes a session by ID.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListSessions returns matching sessions ordered by date, start time and ID.
func (r *SessionRepository) ListSessions(ctx context.Context, filter persistence.SessionFilter) ([]persistence.Session, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + sessionColumns + ` FROM sessions` + where + ` ORDER BY session_date ASC, start_seconds ASC, id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, max(filter.Offset, 0))
	}

	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	sessions := make([]persistence.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return sessions, nil
}

// CountSessions returns how many sessions match filter, ignoring paging.
func (r *SessionRepository) CountSessions(ctx context.Context, filter persistence.SessionFilter) (int, error) {
	where, args := filterClause(filter)
	var count int
	if err := r.pool.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`+where, args...).Scan(&count); err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

func (r *SessionRepository) ensureRoomFree(ctx context.Context, tx *sql.Tx, s persistence.Session) error {
	if s.Status == persistence.StatusCancelled {
		return nil
	}

	var other string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM sessions
		WHERE room_id = ? AND session_date = ? AND status <> ? AND id <> ?
			AND start_seconds < ? AND end_seconds > ?
		ORDER BY start_seconds ASC, id ASC
		LIMIT 1`,
		s.RoomID, s.Date.String(), persistence.StatusCancelled, s.ID,
		s.EndSeconds, s.StartSeconds,
	).Scan(&other)
	switch {
	case err == sql.ErrNoRows:
		return nil
	case err != nil:
		return r.mapper.MapError(err)
	}
	return fmt.Errorf("%w: session %s collides with %s in room %s", persistence.ErrOverlap, s.ID, other, s.RoomID)
}

func validateSession(s persistence.Session) error {
	if strings.TrimSpace(s.ID) == "" || !s.Date.IsValid() || s.EndSeconds <= s.StartSeconds {
		return persistence.ErrConstraintViolation
	}
	return nil
}

func filterClause(filter persistence.SessionFilter) (string, []any) {
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 6)

	if filter.RoomID != "" {
		conditions = append(conditions, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, "teacher_id = ?")
		args = append(args, filter.TeacherID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, "class_id = ?")
		args = append(args, filter.ClassID)
	}
	if filter.From != nil {
		conditions = append(conditions, "session_date >= ?")
		args = append(args, filter.From.String())
	}
	if filter.To != nil {
		conditions = append(conditions, "session_date <= ?")
		args = append(args, filter.To.String())
	}
	if len(filter.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Statuses)), ", ")
		conditions = append(conditions, "status IN ("+placeholders+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var s persistence.Session
	var date, createdAt, updatedAt string
	if err := row.Scan(
		&s.ID, &date, &s.StartSeconds, &s.EndSeconds,
		&s.RoomID, &s.TeacherID, &s.ClassID, &s.Status, &s.IsMakeupClass,
		&createdAt, &updatedAt,
	); err != nil {
		return persistence.Session{}, err
	}

	var err error
	if s.Date, err = civil.ParseDate(date); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse session_date: %w", err)
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return s, nil
}
