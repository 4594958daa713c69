// Package store persists stock vehicles, leads, contact messages, and
// admin-editable form options. The canonical implementation is backed by
// Postgres; an in-memory implementation backs tests and local runs.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// StockVehicle mirrors the stock table. Column names follow the original
// schema (Romanian field names included).
type StockVehicle struct {
	ID          string    `json:"id"`
	Marca       string    `json:"marca"`
	Model       string    `json:"model"`
	An          int       `json:"an"`
	Km          int       `json:"km"`
	Pret        float64   `json:"pret"`
	Combustibil string    `json:"combustibil"`
	Transmisie  string    `json:"transmisie"`
	Caroserie   string    `json:"caroserie"`
	Culoare     string    `json:"culoare"`
	VIN         string    `json:"vin"`
	Negociabil  bool      `json:"negociabil"`
	Images      []string  `json:"images"`
	Descriere   string    `json:"descriere"`
	Status      string    `json:"status"`
	OpenlaneURL string    `json:"openlane_url"`
	Badges      []string  `json:"badges"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LeadKind selects one of the lead tables.
type LeadKind string

const (
	LeadSell    LeadKind = "sell"
	LeadFinance LeadKind = "finance"
	LeadOrder   LeadKind = "order"
)

// ValidLeadKind reports whether the kind names a known lead table.
func ValidLeadKind(kind LeadKind) bool {
	switch kind {
	case LeadSell, LeadFinance, LeadOrder:
		return true
	}
	return false
}

// Lead is a customer-submitted request. Kind-specific form fields travel in
// Details; Status starts at "new" and moves to "processed" by an explicit
// admin action.
type Lead struct {
	ID        string            `json:"id"`
	Kind      LeadKind          `json:"kind"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// ContactMessage is a plain contact-form submission.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Stock listing sort orders.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortYearDesc  = "year_desc"
)

// ValidSort reports whether the sort value is supported. The empty string
// selects the default (newest first).
func ValidSort(sort string) bool {
	switch sort {
	case "", SortNewest, SortPriceAsc, SortPriceDesc, SortYearDesc:
		return true
	}
	return false
}

// StockFilter narrows and orders a stock listing. Zero values mean "no
// constraint".
type StockFilter struct {
	Brand    string
	Fuel     string
	Body     string
	Status   string
	MaxPrice float64
	Sort     string
}

// Store is the persistence surface consumed by the HTTP server and the
// maintenance tooling.
type Store interface {
	ListStock(ctx context.Context, filter StockFilter) ([]StockVehicle, error)
	GetVehicle(ctx context.Context, id string) (StockVehicle, error)
	CreateVehicle(ctx context.Context, v *StockVehicle) error
	UpdateVehicle(ctx context.Context, v *StockVehicle) error
	DeleteVehicle(ctx context.Context, id string) error
	UpdateBrandModel(ctx context.Context, id, brand, model string) error

	CreateLead(ctx context.Context, lead *Lead) error
	ListLeads(ctx context.Context, kind LeadKind, status string) ([]Lead, error)
	UpdateLeadStatus(ctx context.Context, kind LeadKind, id, status string) error

	CreateContactMessage(ctx context.Context, msg *ContactMessage) error
	ListContactMessages(ctx context.Context, status string) ([]ContactMessage, error)
	UpdateContactStatus(ctx context.Context, id, status string) error

	ListFormOptions(ctx context.Context, key string) ([]string, error)
	PutFormOptions(ctx context.Context, key string, values []string) error
}
