package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/learning-center-scheduler/internal/persistence"
)

// DirectoryRepository implements persistence.DirectoryRepository using SQLite
type DirectoryRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	now    func() time.Time
}

// NewDirectoryRepository creates a new SQLite directory repository
func NewDirectoryRepository(pool *ConnectionPool, now func() time.Time) *DirectoryRepository {
	if now == nil {
		now = time.Now
	}
	return &DirectoryRepository{pool: pool, mapper: NewErrorMapper(), now: now}
}

// CreateRoom inserts a new room into the database
func (r *DirectoryRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if strings.TrimSpace(room.ID) == "" || room.Capacity < 0 {
		return persistence.ErrConstraintViolation
	}
	created, updated := r.stamps(room.CreatedAt, room.UpdatedAt)

	_, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO rooms (id, name, capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		room.ID, room.Name, room.Capacity, created, updated,
	)
	return r.mapper.MapError(err)
}

// GetRoom retrieves a room by ID from the database
func (r *DirectoryRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		WHERE id = ?`, id)

	room, err := scanRoom(row)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name then ID
func (r *DirectoryRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	rooms := make([]persistence.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return rooms, nil
}

// CreateTeacher inserts a new teacher.
func (r *DirectoryRepository) CreateTeacher(ctx context.Context, teacher persistence.Teacher) error {
	if strings.TrimSpace(teacher.ID) == "" {
		return persistence.ErrConstraintViolation
	}
	created, updated := r.stamps(teacher.CreatedAt, teacher.UpdatedAt)
	_, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO teachers (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		teacher.ID, teacher.Name, created, updated,
	)
	return r.mapper.MapError(err)
}

// ListTeachers returns all teachers ordered by name then ID.
func (r *DirectoryRepository) ListTeachers(ctx context.Context) ([]persistence.Teacher, error) {
	records, err := r.listNamed(ctx, "teachers")
	if err != nil {
		return nil, err
	}
	teachers := make([]persistence.Teacher, 0, len(records))
	for _, rec := range records {
		teachers = append(teachers, persistence.Teacher(rec))
	}
	return teachers, nil
}

// GetTeacher retrieves a teacher by ID.
func (r *DirectoryRepository) GetTeacher(ctx context.Context, id string) (persistence.Teacher, error) {
	rec, err := r.getNamed(ctx, "teachers", id)
	if err != nil {
		return persistence.Teacher{}, err
	}
	return persistence.Teacher(rec), nil
}

// CreateClass inserts a new class.
func (r *DirectoryRepository) CreateClass(ctx context.Context, class persistence.Class) error {
	if strings.TrimSpace(class.ID) == "" {
		return persistence.ErrConstraintViolation
	}
	created, updated := r.stamps(class.CreatedAt, class.UpdatedAt)
	_, err := r.pool.DB().ExecContext(ctx,
		`INSERT INTO classes (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		class.ID, class.Name, created, updated,
	)
	return r.mapper.MapError(err)
}

// ListClasses returns all classes ordered by name then ID.
func (r *DirectoryRepository) ListClasses(ctx context.Context) ([]persistence.Class, error) {
	records, err := r.listNamed(ctx, "classes")
	if err != nil {
		return nil, err
	}
	classes := make([]persistence.Class, 0, len(records))
	for _, rec := range records {
		classes = append(classes, persistence.Class(rec))
	}
	return classes, nil
}

// GetClass retrieves a class by ID.
func (r *DirectoryRepository) GetClass(ctx context.Context, id string) (persistence.Class, error) {
	rec, err := r.getNamed(ctx, "classes", id)
	if err != nil {
		return persistence.Class{}, err
	}
	return persistence.Class(rec), nil
}

// namedRecord shares its layout with persistence.Teacher and persistence.Class.
type namedRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// listNamed reads an id/name table. table is always a package constant.
func (r *DirectoryRepository) listNamed(ctx context.Context, table string) ([]namedRecord, error) {
	rows, err := r.pool.DB().QueryContext(ctx, fmt.Sprintf(
		`SELECT id, name, created_at, updated_at FROM %s ORDER BY name ASC, id ASC`, table))
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	records := make([]namedRecord, 0)
	for rows.Next() {
		rec, err := scanNamed(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return records, nil
}

func (r *DirectoryRepository) getNamed(ctx context.Context, table, id string) (namedRecord, error) {
	if id == "" {
		return namedRecord{}, persistence.ErrNotFound
	}
	row := r.pool.DB().QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, name, created_at, updated_at FROM %s WHERE id = ?`, table), id)
	rec, err := scanNamed(row)
	if err != nil {
		return namedRecord{}, r.mapper.MapError(err)
	}
	return rec, nil
}

func (r *DirectoryRepository) stamps(created, updated time.Time) (string, string) {
	now := r.now()
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	return formatTimestamp(created), formatTimestamp(updated)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var room persistence.Room
	var createdAt, updatedAt string
	if err := row.Scan(&room.ID, &room.Name, &room.Capacity, &createdAt, &updatedAt); err != nil {
		return persistence.Room{}, err
	}

	var err error
	if room.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return room, nil
}

func scanNamed(row rowScanner) (namedRecord, error) {
	var rec namedRecord
	var createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.Name, &createdAt, &updatedAt); err != nil {
		return namedRecord{}, err
	}

	var err error
	if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return namedRecord{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return namedRecord{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return rec, nil
}
