package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/therocksalt/rocksalt/internal/models"
)

// VenueRepository persists venues.
type VenueRepository struct {
	db *sql.DB
}

func NewVenueRepository(db *sql.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// Create inserts a venue, assigning an ID when the caller has not. The slug
// carries a unique index; callers should treat a unique violation as "someone
// else created it first" and re-read.
func (r *VenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	if venue.ID == "" {
		venue.ID = uuid.New().String()
	}

	query := `
		INSERT INTO venues (id, name, slug, address, city, state, website, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		venue.ID, venue.Name, venue.Slug, venue.Address, venue.City, venue.State, venue.Website,
	).Scan(&venue.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

// GetByID returns the venue with the given ID, or nil when absent.
func (r *VenueRepository) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	return r.getOne(ctx, "SELECT id, name, slug, address, city, state, website, created_at FROM venues WHERE id = $1", id)
}

// GetBySlug returns the venue with the given slug, or nil when absent.
func (r *VenueRepository) GetBySlug(ctx context.Context, slug string) (*models.Venue, error) {
	return r.getOne(ctx, "SELECT id, name, slug, address, city, state, website, created_at FROM venues WHERE slug = $1", slug)
}

// SearchByName returns venues whose name contains the given text, case
// insensitively, ordered by name for deterministic ranking downstream.
func (r *VenueRepository) SearchByName(ctx context.Context, name string) ([]models.Venue, error) {
	query := `
		SELECT id, name, slug, address, city, state, website, created_at
		FROM venues
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

// List returns every venue ordered by name.
func (r *VenueRepository) List(ctx context.Context) ([]models.Venue, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slug, address, city, state, website, created_at FROM venues ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	return scanVenues(rows)
}

func (r *VenueRepository) getOne(ctx context.Context, query string, arg any) (*models.Venue, error) {
	var v models.Venue
	var address, website sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&v.ID, &v.Name, &v.Slug, &address, &v.City, &v.State, &website, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	v.Address = address.String
	v.Website = website.String
	return &v, nil
}

func scanVenues(rows *sql.Rows) ([]models.Venue, error) {
	var venues []models.Venue
	for rows.Next() {
		var v models.Venue
		var address, website sql.NullString
		if err := rows.Scan(&v.ID, &v.Name, &v.Slug, &address, &v.City, &v.State, &website, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		v.Address = address.String
		v.Website = website.String
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
