package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cifcheck/internal/enterprise/domain"
)

const (
	upsertEnterprise = `
INSERT INTO enterprises (id, cif, phone, enterprise_name, registered_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (cif) DO UPDATE SET
	phone = excluded.phone,
	enterprise_name = excluded.enterprise_name
RETURNING id, registered_at`

	getEnterprise = `
SELECT id, cif, phone, enterprise_name, registered_at
FROM enterprises
WHERE cif = ?`

	listEnterprises = `
SELECT id, cif, phone, enterprise_name, registered_at
FROM enterprises
ORDER BY cif`
)

// Repository stores enterprise records in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
	}
}

func (r *Repository) Save(ctx context.Context, rec domain.Record) (domain.StoredRecord, error) {
	var (
		rawID        string
		registeredAt int64
	)
	err := r.db.QueryRowContext(ctx, upsertEnterprise,
		uuid.NewString(),
		rec.CIF.String(),
		rec.Phone,
		rec.Name,
		r.now().UnixMilli(),
	).Scan(&rawID, &registeredAt)
	if err != nil {
		return domain.StoredRecord{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.StoredRecord{}, fmt.Errorf("corrupt enterprise id %q: %w", rawID, err)
	}

	return domain.StoredRecord{
		ID:           id,
		RegisteredAt: time.UnixMilli(registeredAt),
		Record:       rec,
	}, nil
}

func (r *Repository) Get(ctx context.Context, cif domain.CIF) (domain.StoredRecord, error) {
	stored, err := scanRecord(r.db.QueryRowContext(ctx, getEnterprise, cif.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoredRecord{}, domain.ErrRecordNotFound
	}
	return stored, err
}

func (r *Repository) List(ctx context.Context) ([]domain.StoredRecord, error) {
	rows, err := r.db.QueryContext(ctx, listEnterprises)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.StoredRecord, 0)
	for rows.Next() {
		stored, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, stored)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.StoredRecord, error) {
	var (
		rawID, rawCIF, phone, name string
		registeredAt               int64
	)
	if err := s.Scan(&rawID, &rawCIF, &phone, &name, &registeredAt); err != nil {
		return domain.StoredRecord{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.StoredRecord{}, fmt.Errorf("corrupt enterprise id %q: %w", rawID, err)
	}
	rec, err := domain.NewRecord(rawCIF, phone, name)
	if err != nil {
		return domain.StoredRecord{}, fmt.Errorf("corrupt enterprise record %q: %w", rawCIF, err)
	}

	return domain.StoredRecord{
		ID:           id,
		RegisteredAt: time.UnixMilli(registeredAt),
		Record:       rec,
	}, nil
}
