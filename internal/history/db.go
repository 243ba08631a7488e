package history

import (
	"context"
	"fmt"
	"time"

	"github.com/STTM-NSU/currency-converter/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	_createConversions = `CREATE TABLE IF NOT EXISTS conversions (
								id            UUID PRIMARY KEY,
								from_currency TEXT NOT NULL,
								to_currency   TEXT NOT NULL,
								amount        NUMERIC NOT NULL,
								rate          NUMERIC NOT NULL,
								result        NUMERIC NOT NULL,
								created_at    TIMESTAMPTZ NOT NULL
							);`
	_insertConversion = `INSERT INTO conversions (
								id, from_currency, to_currency, amount, rate, result, created_at
							) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_queryLatest = `SELECT id, from_currency, to_currency, amount, rate, result, created_at
							FROM conversions ORDER BY created_at DESC LIMIT $1`
)

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, _createConversions); err != nil {
		return fmt.Errorf("%w: can't create conversions table", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, c model.Conversion) (model.HistoryRecord, error) {
	record := model.HistoryRecord{
		ID:           uuid.NewString(),
		FromCurrency: c.Request.From.String(),
		ToCurrency:   c.Request.To.String(),
		Amount:       c.Request.Amount,
		Rate:         c.Rate,
		Result:       c.Result,
		CreatedAt:    s.now().UTC(),
	}

	if _, err := s.db.ExecContext(ctx, _insertConversion,
		record.ID,
		record.FromCurrency,
		record.ToCurrency,
		record.Amount,
		record.Rate,
		record.Result,
		record.CreatedAt,
	); err != nil {
		return model.HistoryRecord{}, fmt.Errorf("%w: can't insert conversion", err)
	}

	return record, nil
}

// Latest returns up to limit records, newest first.
func (s *Store) Latest(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	records := make([]model.HistoryRecord, 0, limit)
	if err := s.db.SelectContext(ctx, &records, _queryLatest, limit); err != nil {
		return nil, fmt.Errorf("%w: can't query conversions", err)
	}
	return records, nil
}
