package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/autocentru/dealer/pkg/constants"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres connects to the database named by connString.
func NewPostgres(ctx context.Context, connString string, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

const stockColumns = `id, marca, model, an, km, pret, combustibil, transmisie,
	caroserie, culoare, vin, negociabil, images, descriere, status,
	openlane_url, badges, created_at, updated_at`

func (p *Postgres) ListStock(ctx context.Context, filter StockFilter) ([]StockVehicle, error) {
	query := `SELECT ` + stockColumns + ` FROM stock`

	var conds []string
	var args []interface{}
	addCond := func(expr string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}
	if filter.Brand != "" {
		addCond("marca = $%d", filter.Brand)
	}
	if filter.Fuel != "" {
		addCond("combustibil = $%d", filter.Fuel)
	}
	if filter.Body != "" {
		addCond("caroserie = $%d", filter.Body)
	}
	if filter.Status != "" {
		addCond("status = $%d", filter.Status)
	}
	if filter.MaxPrice > 0 {
		addCond("pret <= $%d", filter.MaxPrice)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	switch filter.Sort {
	case SortPriceAsc:
		query += " ORDER BY pret ASC"
	case SortPriceDesc:
		query += " ORDER BY pret DESC"
	case SortYearDesc:
		query += " ORDER BY an DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var vehicles []StockVehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock rows: %w", err)
	}
	return vehicles, nil
}

func (p *Postgres) GetVehicle(ctx context.Context, id string) (StockVehicle, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock WHERE id = $1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return StockVehicle{}, ErrNotFound
	}
	if err != nil {
		return StockVehicle{}, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return v, nil
}

func (p *Postgres) CreateVehicle(ctx context.Context, v *StockVehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Status == "" {
		v.Status = "available"
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO stock (
			id, marca, model, an, km, pret, combustibil, transmisie,
			caroserie, culoare, vin, negociabil, images, descriere,
			status, openlane_url, badges, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		v.ID, v.Marca, v.Model, v.An, v.Km, v.Pret, v.Combustibil, v.Transmisie,
		v.Caroserie, v.Culoare, v.VIN, v.Negociabil, v.Images, v.Descriere,
		v.Status, v.OpenlaneURL, v.Badges, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateVehicle(ctx context.Context, v *StockVehicle) error {
	v.UpdatedAt = time.Now().UTC()
	tag, err := p.pool.Exec(ctx, `
		UPDATE stock SET
			marca = $2, model = $3, an = $4, km = $5, pret = $6,
			combustibil = $7, transmisie = $8, caroserie = $9, culoare = $10,
			vin = $11, negociabil = $12, images = $13, descriere = $14,
			status = $15, openlane_url = $16, badges = $17, updated_at = $18
		WHERE id = $1`,
		v.ID, v.Marca, v.Model, v.An, v.Km, v.Pret,
		v.Combustibil, v.Transmisie, v.Caroserie, v.Culoare,
		v.VIN, v.Negociabil, v.Images, v.Descriere,
		v.Status, v.OpenlaneURL, v.Badges, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vehicle %s: %w", v.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteVehicle(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM stock WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) UpdateBrandModel(ctx context.Context, id, brand, model string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE stock SET marca = $2, model = $3, updated_at = $4 WHERE id = $1`,
		id, brand, model, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update brand/model for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func leadTable(kind LeadKind) (string, error) {
	switch kind {
	case LeadSell:
		return "lead_sell", nil
	case LeadFinance:
		return "lead_finance", nil
	case LeadOrder:
		return "lead_order", nil
	}
	return "", fmt.Errorf("unknown lead kind: %s", kind)
}

func (p *Postgres) CreateLead(ctx context.Context, lead *Lead) error {
	table, err := leadTable(lead.Kind)
	if err != nil {
		return err
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	lead.Status = constants.StatusNew
	lead.CreatedAt = time.Now().UTC()

	details, err := json.Marshal(lead.Details)
	if err != nil {
		return fmt.Errorf("encode lead details: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO `+table+` (id, name, phone, email, message, details, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		lead.ID, lead.Name, lead.Phone, lead.Email, lead.Message, details, lead.Status, lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create %s lead: %w", lead.Kind, err)
	}
	return nil
}

func (p *Postgres) ListLeads(ctx context.Context, kind LeadKind, status string) ([]Lead, error) {
	table, err := leadTable(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, name, phone, email, message, details, status, created_at FROM ` + table
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s leads: %w", kind, err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var lead Lead
		var details []byte
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Phone, &lead.Email,
			&lead.Message, &details, &lead.Status, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s lead: %w", kind, err)
		}
		lead.Kind = kind
		if len(details) > 0 {
			if err := json.Unmarshal(details, &lead.Details); err != nil {
				return nil, fmt.Errorf("decode lead details: %w", err)
			}
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s leads: %w", kind, err)
	}
	return leads, nil
}

func (p *Postgres) UpdateLeadStatus(ctx context.Context, kind LeadKind, id, status string) error {
	table, err := leadTable(kind)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE `+table+` SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update %s lead status: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateContactMessage(ctx context.Context, msg *ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Status = constants.StatusNew
	msg.CreatedAt = time.Now().UTC()

	_, err := p.pool.Exec(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, message, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		msg.ID, msg.Name, msg.Email, msg.Phone, msg.Message, msg.Status, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

func (p *Postgres) ListContactMessages(ctx context.Context, status string) ([]ContactMessage, error) {
	query := `SELECT id, name, email, phone, message, status, created_at FROM contact_messages`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var msgs []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}
	return msgs, nil
}

func (p *Postgres) UpdateContactStatus(ctx context.Context, id, status string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE contact_messages SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListFormOptions(ctx context.Context, key string) ([]string, error) {
	var values []string
	err := p.pool.QueryRow(ctx, `SELECT "values" FROM form_options WHERE key = $1`, key).Scan(&values)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list form options %s: %w", key, err)
	}
	return values, nil
}

func (p *Postgres) PutFormOptions(ctx context.Context, key string, values []string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO form_options (key, "values") VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET "values" = EXCLUDED."values"`,
		key, values,
	)
	if err != nil {
		return fmt.Errorf("put form options %s: %w", key, err)
	}
	return nil
}

func scanVehicle(row pgx.Row) (StockVehicle, error) {
	var v StockVehicle
	err := row.Scan(
		&v.ID, &v.Marca, &v.Model, &v.An, &v.Km, &v.Pret, &v.Combustibil,
		&v.Transmisie, &v.Caroserie, &v.Culoare, &v.VIN, &v.Negociabil,
		&v.Images, &v.Descriere, &v.Status, &v.OpenlaneURL, &v.Badges,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}
