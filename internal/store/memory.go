package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/autocentru/dealer/pkg/constants"
	"github.com/google/uuid"
)

// Memory is an in-memory Store used by tests and database-less local runs.
type Memory struct {
	mu       sync.RWMutex
	vehicles []StockVehicle
	leads    map[LeadKind][]Lead
	messages []ContactMessage
	options  map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		leads:   make(map[LeadKind][]Lead),
		options: make(map[string][]string),
	}
}

func (m *Memory) ListStock(ctx context.Context, filter StockFilter) ([]StockVehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []StockVehicle
	for _, v := range m.vehicles {
		if filter.Brand != "" && v.Marca != filter.Brand {
			continue
		}
		if filter.Fuel != "" && v.Combustibil != filter.Fuel {
			continue
		}
		if filter.Body != "" && v.Caroserie != filter.Body {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.MaxPrice > 0 && v.Pret > filter.MaxPrice {
			continue
		}
		out = append(out, v)
	}

	switch filter.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Pret < out[j].Pret })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Pret > out[j].Pret })
	case SortYearDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].An > out[j].An })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (m *Memory) GetVehicle(ctx context.Context, id string) (StockVehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return StockVehicle{}, ErrNotFound
}

func (m *Memory) CreateVehicle(ctx context.Context, v *StockVehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Status == "" {
		v.Status = "available"
	}
	m.vehicles = append(m.vehicles, *v)
	return nil
}

func (m *Memory) UpdateVehicle(ctx context.Context, v *StockVehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.vehicles {
		if m.vehicles[i].ID == v.ID {
			v.CreatedAt = m.vehicles[i].CreatedAt
			v.UpdatedAt = time.Now().UTC()
			m.vehicles[i] = *v
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteVehicle(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.vehicles {
		if m.vehicles[i].ID == id {
			m.vehicles = append(m.vehicles[:i], m.vehicles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) UpdateBrandModel(ctx context.Context, id, brand, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.vehicles {
		if m.vehicles[i].ID == id {
			m.vehicles[i].Marca = brand
			m.vehicles[i].Model = model
			m.vehicles[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) CreateLead(ctx context.Context, lead *Lead) error {
	if _, err := leadTable(lead.Kind); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	lead.Status = constants.StatusNew
	lead.CreatedAt = time.Now().UTC()
	m.leads[lead.Kind] = append(m.leads[lead.Kind], *lead)
	return nil
}

func (m *Memory) ListLeads(ctx context.Context, kind LeadKind, status string) ([]Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Lead
	for _, lead := range m.leads[kind] {
		if status != "" && lead.Status != status {
			continue
		}
		out = append(out, lead)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateLeadStatus(ctx context.Context, kind LeadKind, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	leads := m.leads[kind]
	for i := range leads {
		if leads[i].ID == id {
			leads[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) CreateContactMessage(ctx context.Context, msg *ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Status = constants.StatusNew
	msg.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *Memory) ListContactMessages(ctx context.Context, status string) ([]ContactMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ContactMessage
	for _, msg := range m.messages {
		if status != "" && msg.Status != status {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (m *Memory) UpdateContactStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) ListFormOptions(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.options[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string(nil), values...), nil
}

func (m *Memory) PutFormOptions(ctx context.Context, key string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.options[key] = append([]string(nil), values...)
	return nil
}
