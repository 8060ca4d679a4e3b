package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/therocksalt/rocksalt/internal/models"
)

// EventRepository persists canonical events.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, name, venue_id, start_time, description, external_url, ticket_url,
	external_id, source, age_restriction, created_at, updated_at`

// Create inserts an event, assigning an ID when the caller has not.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	query := `
		INSERT INTO events (id, name, venue_id, start_time, description, external_url,
			ticket_url, external_id, source, age_restriction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.Name, event.VenueID, event.StartTime, event.Description,
		event.ExternalURL, event.TicketURL, event.ExternalID, event.Source, event.AgeRestriction,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// FindByNameVenueDay returns an event with the same name at the same venue
// whose start falls within [dayStart, dayEnd), or nil when there is none.
// This is the duplicate check for the scraper path.
func (r *EventRepository) FindByNameVenueDay(ctx context.Context, name, venueID string, dayStart, dayEnd time.Time) (*models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE name = $1 AND venue_id = $2 AND start_time >= $3 AND start_time < $4
		LIMIT 1`, eventColumns)

	return r.getOne(ctx, query, name, venueID, dayStart, dayEnd)
}

// GetByExternalID returns the event a curation source previously wrote, or
// nil when absent.
func (r *EventRepository) GetByExternalID(ctx context.Context, source, externalID string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE source = $1 AND external_id = $2`, eventColumns)
	return r.getOne(ctx, query, source, externalID)
}

// Update overwrites the mutable fields of an existing event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $2, venue_id = $3, start_time = $4, description = $5,
			external_url = $6, ticket_url = $7, age_restriction = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.Name, event.VenueID, event.StartTime, event.Description,
		event.ExternalURL, event.TicketURL, event.AgeRestriction,
	).Scan(&event.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("event %s not found", event.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// List returns events matching the query, soonest first.
func (r *EventRepository) List(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events e
		WHERE ($1 = '' OR e.venue_id IN (SELECT id FROM venues WHERE slug = $1))
		  AND ($2::timestamptz IS NULL OR e.start_time >= $2)
		  AND ($3::timestamptz IS NULL OR e.start_time < $3)
		ORDER BY e.start_time
		LIMIT $4`, eventColumnsAliased("e"))

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, query, q.VenueSlug, nullTime(q.From), nullTime(q.To), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *EventRepository) getOne(ctx context.Context, query string, args ...any) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	event, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func scanEvent(scan func(dest ...any) error) (*models.Event, error) {
	var e models.Event
	var description, externalURL, ticketURL, externalID, source, ageRestriction sql.NullString

	err := scan(&e.ID, &e.Name, &e.VenueID, &e.StartTime, &description, &externalURL,
		&ticketURL, &externalID, &source, &ageRestriction, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Description = description.String
	e.ExternalURL = externalURL.String
	e.TicketURL = ticketURL.String
	e.ExternalID = externalID.String
	e.Source = source.String
	e.AgeRestriction = ageRestriction.String
	return &e, nil
}

func eventColumnsAliased(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.name, %[1]s.venue_id, %[1]s.start_time, %[1]s.description,
		%[1]s.external_url, %[1]s.ticket_url, %[1]s.external_id, %[1]s.source,
		%[1]s.age_restriction, %[1]s.created_at, %[1]s.updated_at`, alias)
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
