package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access operations used by the transaction pipeline.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SearchContacts retrieves up to limit contacts whose name, email, or
	// phone contains the query string.
	SearchContacts(ctx context.Context, query string, limit int) ([]Contact, error)

	// SaveContact inserts a new contact record.
	SaveContact(ctx context.Context, contact *Contact) error

	// ListSavedServices retrieves all saved services.
	ListSavedServices(ctx context.Context) ([]SavedService, error)

	// SaveService inserts a new saved service record.
	SaveService(ctx context.Context, service *SavedService) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SearchContacts(ctx context.Context, query string, limit int) ([]Contact, error) {
	if limit <= 0 {
		limit = 5
	}

	pattern := "%" + query + "%"
	contacts := []Contact{}

	err := s.db.SelectContext(ctx, &contacts, `
        SELECT id, created_at, updated_at, name, email, phone
        FROM contacts
        WHERE name LIKE ? OR email LIKE ? OR phone LIKE ?
        ORDER BY name
        LIMIT ?;
    `, pattern, pattern, pattern, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error searching contacts", "query", query, "error", err)
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}

	return contacts, nil
}

func (s *sqlxStore) SaveContact(ctx context.Context, contact *Contact) error {
	if contact == nil {
		return fmt.Errorf("cannot save nil contact")
	}
	if contact.Name == "" {
		return fmt.Errorf("contact must have a non-empty name")
	}

	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	result, err := s.db.NamedExecContext(ctx, `
        INSERT INTO contacts (created_at, updated_at, name, email, phone)
        VALUES (:created_at, :updated_at, :name, :email, :phone);
    `, contact)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving contact", "name", contact.Name, "error", err)
		return fmt.Errorf("failed to save contact %q: %w", contact.Name, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		contact.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving contact",
			"name", contact.Name, "error", err)
	}

	return nil
}

func (s *sqlxStore) ListSavedServices(ctx context.Context) ([]SavedService, error) {
	services := []SavedService{}

	err := s.db.SelectContext(ctx, &services, `
        SELECT id, created_at, updated_at, name, provider, account_number
        FROM saved_services
        ORDER BY name;
    `)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing saved services", "error", err)
		return nil, fmt.Errorf("failed to list saved services: %w", err)
	}

	return services, nil
}

func (s *sqlxStore) SaveService(ctx context.Context, service *SavedService) error {
	if service == nil {
		return fmt.Errorf("cannot save nil service")
	}
	if service.Name == "" {
		return fmt.Errorf("service must have a non-empty name")
	}

	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now

	result, err := s.db.NamedExecContext(ctx, `
        INSERT INTO saved_services (created_at, updated_at, name, provider, account_number)
        VALUES (:created_at, :updated_at, :name, :provider, :account_number);
    `, service)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving service", "name", service.Name, "error", err)
		return fmt.Errorf("failed to save service %q: %w", service.Name, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		service.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving service",
			"name", service.Name, "error", err)
	}

	return nil
}
