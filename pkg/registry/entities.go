// Package registry implements the configuration reference-data API for the
// VM catalog: eight entity types, a gorm-backed store, per-entity field
// schemas, referential-integrity checks, and the uniform response envelope.
package registry

import (
	"time"

	"gorm.io/gorm"
)

// Audit carries the columns shared by every reference entity. The
// gorm.DeletedAt column gives soft-deleted rows the "excluded from reads by
// default" behavior; DeletedBy is set in a separate step before the soft
// delete itself.
type Audit struct {
	ID        uint           `gorm:"primaryKey;column:id"`
	CreatedBy string         `gorm:"column:created_by"`
	UpdatedBy string         `gorm:"column:updated_by"`
	DeletedBy string         `gorm:"column:deleted_by"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// Size is a VM sizing preset (cpus, ram in MB, storage in GB).
type Size struct {
	Audit
	Name    string `gorm:"column:name;not null"`
	CPUs    int    `gorm:"column:cpus;not null"`
	RAM     int    `gorm:"column:ram;not null"`
	Storage int    `gorm:"column:storage;not null"`
}

// OsLanguage is an installable OS language option.
type OsLanguage struct {
	Audit
	Name string `gorm:"column:name;not null"`
}

// OsFamily groups OS templates (e.g. "Windows Server", short name "win").
type OsFamily struct {
	Audit
	Name      string `gorm:"column:name;not null"`
	ShortName string `gorm:"column:short_name;size:6;not null"`
}

// Location is a deployment site together with the networks usable there.
type Location struct {
	Audit
	Name              string      `gorm:"column:name;not null"`
	AvailableNetworks StringSlice `gorm:"column:available_networks;type:text"`
}

// Endpoint is a hypervisor/management endpoint with its credentials and the
// clusters reachable through it.
type Endpoint struct {
	Audit
	Name              string      `gorm:"column:name;not null"`
	ShortName         string      `gorm:"column:short_name;not null"`
	URL               string      `gorm:"column:url;not null"`
	Username          string      `gorm:"column:username;not null"`
	Password          string      `gorm:"column:password;not null"`
	AvailableClusters StringSlice `gorm:"column:available_clusters;type:text"`
}

// ApprovalPolicy holds the ordered approval rules applied to VM requests.
type ApprovalPolicy struct {
	Audit
	Name     string      `gorm:"column:name;not null"`
	Policies PolicyRules `gorm:"column:policies;type:text"`
}

// OsTemplate binds a hypervisor template path to an OS family and a
// location. AvailableNetwork must be one of the referenced location's
// AvailableNetworks at write time.
type OsTemplate struct {
	Audit
	Name             string    `gorm:"column:name;not null"`
	TemplateID       string    `gorm:"column:template_id;not null"`
	OsFamilyID       uint      `gorm:"column:os_family_id;not null"`
	OsFamily         *OsFamily `gorm:"foreignKey:OsFamilyID"`
	LocationID       uint      `gorm:"column:location_id;not null"`
	Location         *Location `gorm:"foreignKey:LocationID"`
	AvailableNetwork string    `gorm:"column:available_network;not null"`
}

// Catalog entry types.
const (
	CatalogTypeStandard = "Standard"
	CatalogTypeCustom   = "Custom"
)

// Catalog is an orderable catalog entry pointing at a default template and
// approval policy.
type Catalog struct {
	Audit
	Name                        string          `gorm:"column:name;not null"`
	Icon                        string          `gorm:"column:icon"`
	ShortName                   string          `gorm:"column:short_name;not null"`
	DefaultTemplateID           uint            `gorm:"column:default_template_id;not null"`
	DefaultTemplate             *OsTemplate     `gorm:"foreignKey:DefaultTemplateID"`
	DefaultApprovalPolicyID     uint            `gorm:"column:default_approval_policy_id;not null"`
	DefaultApprovalPolicy       *ApprovalPolicy `gorm:"foreignKey:DefaultApprovalPolicyID"`
	DefaultLeasePeriod          int             `gorm:"column:default_lease_period;not null"`
	PermittedMaxLeaseExtensions int             `gorm:"column:permitted_max_lease_extensions;not null"`
	Type                        string          `gorm:"column:type;not null"`
}
