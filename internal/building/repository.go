package building

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/ecobuild-core/internal/infrastructure/database"
)

// Repository defines persistence for saved buildings.
type Repository interface {
	// Create inserts b, assigning ID and timestamps when empty.
	// Returns ErrOwnerNotFound if b.UserID does not exist.
	Create(ctx context.Context, b *SavedBuilding) error

	// GetByID retrieves a building. Returns ErrBuildingNotFound if absent.
	GetByID(ctx context.Context, id string) (*SavedBuilding, error)

	// ListByUser returns a user's buildings, newest first.
	ListByUser(ctx context.Context, userID string) ([]SavedBuilding, error)

	// Update replaces the building data and analysis of an existing record.
	// Returns ErrBuildingNotFound if absent.
	Update(ctx context.Context, b *SavedBuilding) error

	// Delete removes a building. Returns ErrBuildingNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository on the buildings table, storing the
// wizard data and analysis as JSON documents.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const selectColumns = `id, user_id, building_data, analysis_result, created_at, updated_at`

// NewID returns a fresh building identifier.
func NewID() string {
	return "bld-" + uuid.NewString()
}

// Create inserts a new building.
func (r *SQLiteRepository) Create(ctx context.Context, b *SavedBuilding) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	now := r.now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	b.AnalysisResult = b.AnalysisResult.Normalised()

	dataJSON, resultJSON, err := encodeDocuments(b)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO buildings (id, user_id, name, location_region, score,
			building_data, analysis_result, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.BuildingData.DisplayName(), string(b.BuildingData.LocationRegion),
		b.AnalysisResult.SustainabilityScore, dataJSON, resultJSON,
		database.FormatTime(b.CreatedAt), database.FormatTime(b.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("inserting building: %w", err)
	}
	return nil
}

// GetByID retrieves a building by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*SavedBuilding, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM buildings WHERE id = ?`, id)
	b, err := scanBuilding(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildingNotFound
		}
		return nil, fmt.Errorf("querying building by id: %w", err)
	}
	return b, nil
}

// ListByUser returns every building owned by userID, newest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]SavedBuilding, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM buildings WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying buildings: %w", err)
	}
	defer rows.Close()

	buildings := make([]SavedBuilding, 0)
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning building: %w", err)
		}
		buildings = append(buildings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating buildings: %w", err)
	}
	return buildings, nil
}

// Update replaces the stored documents of an existing building. Owner and
// creation time are never changed.
func (r *SQLiteRepository) Update(ctx context.Context, b *SavedBuilding) error {
	b.UpdatedAt = r.now().UTC()
	b.AnalysisResult = b.AnalysisResult.Normalised()

	dataJSON, resultJSON, err := encodeDocuments(b)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE buildings
		SET name = ?, location_region = ?, score = ?, building_data = ?,
			analysis_result = ?, updated_at = ?
		WHERE id = ?`,
		b.BuildingData.DisplayName(), string(b.BuildingData.LocationRegion),
		b.AnalysisResult.SustainabilityScore, dataJSON, resultJSON,
		database.FormatTime(b.UpdatedAt), b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating building: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	} else if n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}

// Delete removes a building by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting building: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	} else if n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}

func encodeDocuments(b *SavedBuilding) (dataJSON, resultJSON string, err error) {
	data, err := json.Marshal(b.BuildingData)
	if err != nil {
		return "", "", fmt.Errorf("marshalling building data: %w", err)
	}
	result, err := json.Marshal(b.AnalysisResult)
	if err != nil {
		return "", "", fmt.Errorf("marshalling analysis result: %w", err)
	}
	return string(data), string(result), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuilding(s rowScanner) (*SavedBuilding, error) {
	var (
		b                    SavedBuilding
		dataJSON, resultJSON string
		createdAt, updatedAt string
	)
	if err := s.Scan(&b.ID, &b.UserID, &dataJSON, &resultJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(dataJSON), &b.BuildingData); err != nil {
		return nil, fmt.Errorf("decoding building data for %s: %w", b.ID, err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &b.AnalysisResult); err != nil {
		return nil, fmt.Errorf("decoding analysis result for %s: %w", b.ID, err)
	}
	b.AnalysisResult = b.AnalysisResult.Normalised()

	var err error
	if b.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
