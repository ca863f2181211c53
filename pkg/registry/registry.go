package registry

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/vmforge/configapi/pkg/storage"
)

// Registry owns the per-entity stores and the cross-entity write checks.
// It holds no request state; all consistency is delegated to the database.
type Registry struct {
	db     *gorm.DB
	logger *slog.Logger

	Sizes            *Store[Size]
	OsLanguages      *Store[OsLanguage]
	OsFamilies       *Store[OsFamily]
	Locations        *Store[Location]
	Endpoints        *Store[Endpoint]
	ApprovalPolicies *Store[ApprovalPolicy]
	OsTemplates      *Store[OsTemplate]
	Catalogs         *Store[Catalog]

	// Icons stores uploaded catalog icons; optional, upload routes are
	// disabled when nil.
	Icons *storage.IconStore

	// StrictNetworkRevalidation re-checks availableNetwork membership when
	// an update changes location without touching availableNetwork. Off by
	// default: the historical behavior lets such updates through unchecked.
	StrictNetworkRevalidation bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithIconStore enables the catalog icon upload endpoint.
func WithIconStore(icons *storage.IconStore) Option {
	return func(r *Registry) {
		r.Icons = icons
	}
}

// WithStrictNetworkRevalidation toggles membership re-validation on
// location-only updates.
func WithStrictNetworkRevalidation(on bool) Option {
	return func(r *Registry) {
		r.StrictNetworkRevalidation = on
	}
}

// New creates a Registry over db.
func New(db *gorm.DB, opts ...Option) *Registry {
	r := &Registry{
		db:               db,
		logger:           slog.Default(),
		Sizes:            NewStore[Size](db),
		OsLanguages:      NewStore[OsLanguage](db),
		OsFamilies:       NewStore[OsFamily](db),
		Locations:        NewStore[Location](db),
		Endpoints:        NewStore[Endpoint](db),
		ApprovalPolicies: NewStore[ApprovalPolicy](db),
		OsTemplates:      NewStore[OsTemplate](db),
		Catalogs:         NewStore[Catalog](db),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AutoMigrate creates or updates the eight entity tables.
func (r *Registry) AutoMigrate() error {
	models := []any{
		&Size{}, &OsLanguage{}, &OsFamily{}, &Location{},
		&Endpoint{}, &ApprovalPolicy{}, &OsTemplate{}, &Catalog{},
	}
	for _, m := range models {
		if err := r.db.AutoMigrate(m); err != nil {
			return fmt.Errorf("auto-migrate %T: %w", m, err)
		}
	}
	return nil
}
