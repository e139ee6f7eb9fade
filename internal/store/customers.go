package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/backdesk/backdesk/internal/model"
)

var customerColumns = []string{"id", "name", "email", "company", "phone", "created_at"}

var customerFilterable = map[string]bool{
	"id": true, "name": true, "email": true, "company": true, "created_at": true,
}

// CreateCustomer inserts a customer and returns it with its assigned id and
// created_at stamp.
func (s *Session) CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	c.CreatedAt = s.clock.Now()

	res, err := s.Mutate(ctx, `
		INSERT INTO customers (name, email, company, phone, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.Name, c.Email, c.Company, c.Phone, c.CreatedAt)
	if err != nil {
		return model.Customer{}, err
	}

	c.ID = res.LastInsertID
	return c, nil
}

// GetCustomer retrieves a customer by id.
func (s *Session) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	row := s.QueryRow(ctx, `
		SELECT id, name, email, company, phone, created_at
		FROM customers
		WHERE id = ?
	`, id)

	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Customer{}, NewNotFoundError("customer", id)
	}
	if err != nil {
		return model.Customer{}, mapEngineError("read customer", err)
	}
	return c, nil
}

// ListCustomers returns customers matching opts. Returns an empty slice,
// not nil, when nothing matches.
func (s *Session) ListCustomers(ctx context.Context, opts ListOptions) ([]model.Customer, error) {
	query, params, err := buildList("customers", customerColumns, customerFilterable, opts)
	if err != nil {
		return nil, NewDatabaseError("build customer query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, mapEngineError("list customers", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone, &c.CreatedAt); err != nil {
			return nil, mapEngineError("scan customer", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapEngineError("iterate customers", err)
	}

	return customers, nil
}

// UpdateCustomer overwrites the mutable fields of the customer identified
// by c.ID and returns the stored record.
func (s *Session) UpdateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	res, err := s.Mutate(ctx, `
		UPDATE customers
		SET name = ?, email = ?, company = ?, phone = ?
		WHERE id = ?
	`, c.Name, c.Email, c.Company, c.Phone, c.ID)
	if err != nil {
		return model.Customer{}, err
	}
	if res.RowsAffected == 0 {
		return model.Customer{}, NewNotFoundError("customer", c.ID)
	}

	return s.GetCustomer(ctx, c.ID)
}

// DeleteCustomer removes a customer by id.
func (s *Session) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.Mutate(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return NewNotFoundError("customer", id)
	}
	return nil
}
