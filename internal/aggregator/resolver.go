package aggregator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/therocksalt/rocksalt/internal/database"
	"github.com/therocksalt/rocksalt/internal/models"
	"github.com/therocksalt/rocksalt/internal/normalize"
	"github.com/therocksalt/rocksalt/internal/venues"
)

// VenueStore is the venue persistence the resolver needs.
type VenueStore interface {
	GetBySlug(ctx context.Context, slug string) (*models.Venue, error)
	SearchByName(ctx context.Context, name string) ([]models.Venue, error)
	Create(ctx context.Context, venue *models.Venue) error
}

// Resolver maps scraped venue names to stored venues, creating them when no
// existing venue matches.
type Resolver struct {
	store  VenueStore
	logger *slog.Logger
}

func NewResolver(store VenueStore, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve finds the venue a raw event belongs to. Existing candidates are
// ranked exact match first, then prefix, then substring, with alphabetical
// order breaking ties. When nothing matches, a venue is created: from the
// known-venue registry when the name is recognized, otherwise from the
// scraped name with a derived slug.
func (r *Resolver) Resolve(ctx context.Context, raw models.RawEvent) (*models.Venue, error) {
	name := normalize.CleanText(raw.VenueName)

	candidates, err := r.store.SearchByName(ctx, name)
	if err != nil {
		return nil, &PersistenceError{Op: "search venues", Err: err}
	}

	if best := rankCandidates(name, candidates); best != nil {
		return best, nil
	}

	venue := buildVenue(name, raw.VenueAddress)

	if err := r.store.Create(ctx, venue); err != nil {
		if database.IsUniqueViolation(err) {
			// Lost a creation race; the winner's row is authoritative.
			existing, getErr := r.store.GetBySlug(ctx, venue.Slug)
			if getErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, &PersistenceError{Op: "create venue", Err: err}
	}

	r.logger.Info("created venue", "name", venue.Name, "slug", venue.Slug)
	return venue, nil
}

// rankCandidates picks the best match among venues whose names contain the
// scraped name. Candidates are assumed to arrive in alphabetical order, so
// the first hit at the best rank wins ties.
func rankCandidates(name string, candidates []models.Venue) *models.Venue {
	lower := strings.ToLower(name)

	var best *models.Venue
	bestRank := 3
	for i := range candidates {
		candidate := strings.ToLower(candidates[i].Name)
		var rank int
		switch {
		case candidate == lower:
			rank = 0
		case strings.HasPrefix(candidate, lower):
			rank = 1
		default:
			rank = 2
		}
		if rank < bestRank {
			best = &candidates[i]
			bestRank = rank
		}
	}
	return best
}

func buildVenue(name, address string) *models.Venue {
	if known, ok := venues.Match(name); ok {
		return &models.Venue{
			Name:    known.Name,
			Slug:    known.Slug,
			Address: known.Address,
			City:    known.City,
			State:   known.State,
			Website: known.Website,
		}
	}
	return &models.Venue{
		Name:    name,
		Slug:    venues.Slugify(name),
		Address: normalize.CleanText(address),
		City:    "Salt Lake City",
		State:   "UT",
	}
}
