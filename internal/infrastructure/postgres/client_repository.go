package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"ledgerdesk/internal/domain/client"
	"ledgerdesk/internal/infrastructure/crypto"
)

// ClientRepository implements the client.Repository interface for PostgreSQL.
// Phone numbers are encrypted at rest with the process encryptor.
type ClientRepository struct {
	db  *DB
	enc *crypto.Encryptor
}

// NewClientRepository creates a new PostgreSQL client repository
func NewClientRepository(db *DB, enc *crypto.Encryptor) *ClientRepository {
	return &ClientRepository{db: db, enc: enc}
}

const clientColumns = "id, first_name, last_name, email, phone, type, status, created_at"

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, params client.CreateParams) (*client.Client, error) {
	phone, err := r.enc.Encrypt(params.Phone)
	if err != nil {
		return nil, fmt.Errorf("encrypting phone: %w", err)
	}

	query := `
		INSERT INTO clients (first_name, last_name, email, phone, type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + clientColumns

	row := r.db.QueryRowContext(ctx, query,
		params.FirstName, params.LastName, params.Email, phone, params.Type, params.Status,
	)
	c, err := r.scanClient(row.Scan)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return nil, client.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

// GetByID retrieves a client by its ID
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := r.scanClient(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, client.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// GetByEmail retrieves a client by email
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1 AND email <> ''`

	c, err := r.scanClient(r.db.QueryRowContext(ctx, query, email).Scan)
	if err == sql.ErrNoRows {
		return nil, client.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client by email: %w", err)
	}
	return c, nil
}

// List retrieves clients matching the filters, newest first
func (r *ClientRepository) List(ctx context.Context, filters client.SearchFilters) ([]*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE 1=1`
	var args []any

	if filters.Query != "" {
		args = append(args, "%"+strings.ToLower(filters.Query)+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(email) LIKE $%d)", n, n, n)
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, filters.Limit)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var out []*client.Client
	for rows.Next() {
		c, err := r.scanClient(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update mutates a client record. Nil params are left unchanged.
func (r *ClientRepository) Update(ctx context.Context, id int64, params client.UpdateParams) (*client.Client, error) {
	sets := []string{}
	var args []any

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.FirstName != nil {
		addSet("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		addSet("last_name", *params.LastName)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.Phone != nil {
		phone, err := r.enc.Encrypt(*params.Phone)
		if err != nil {
			return nil, fmt.Errorf("encrypting phone: %w", err)
		}
		addSet("phone", phone)
	}
	if params.Type != nil {
		addSet("type", *params.Type)
	}
	if params.Status != nil {
		addSet("status", *params.Status)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE clients SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), clientColumns,
	)

	c, err := r.scanClient(r.db.QueryRowContext(ctx, query, args...).Scan)
	if err == sql.ErrNoRows {
		return nil, client.ErrClientNotFound
	}
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return nil, client.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return c, nil
}

// Delete removes a client; the schema cascades to accounts and transactions.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

// scanClient reads one client row and decrypts the phone field.
func (r *ClientRepository) scanClient(scan func(...any) error) (*client.Client, error) {
	var c client.Client
	if err := scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Type, &c.Status, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	phone, err := r.enc.Decrypt(c.Phone)
	if err != nil {
		// rows written before encryption was enabled stay readable
		log.Printf("Could not decrypt phone for client %d, returning stored value", c.ID)
		return &c, nil
	}
	c.Phone = phone
	return &c, nil
}
