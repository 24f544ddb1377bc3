package postgres

import (
	"context"
	"database/sql"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type archiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) repository.ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) RecordOperation(ctx context.Context, rec *domain.OperationRecord) error {
	query := `INSERT INTO operations (kind, caller, car_id, subject, amount, applied_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	appliedOn := rec.AppliedOn
	if appliedOn == "" {
		appliedOn = time.Now().UTC().Format(time.RFC3339)
	}
	return r.db.QueryRowContext(ctx, query,
		rec.Kind, rec.Caller, rec.CarID, rec.Subject, int64(rec.Amount), appliedOn).Scan(&rec.ID)
}

func (r *archiveRepository) SaveSnapshot(ctx context.Context, snap *domain.LedgerSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var snapshotID int64
	query := `INSERT INTO ledger_snapshots (commission_pool, total_supply, taken_on)
	          VALUES ($1, $2, $3) RETURNING id`
	if err := tx.QueryRowContext(ctx, query,
		int64(snap.CommissionPool), int64(snap.TotalSupply), snap.TakenOn).Scan(&snapshotID); err != nil {
		return err
	}

	entryQuery := `INSERT INTO snapshot_balances (snapshot_id, identity, balance) VALUES ($1, $2, $3)`
	for _, e := range snap.Entries {
		if _, err := tx.ExecContext(ctx, entryQuery, snapshotID, e.Identity, int64(e.Balance)); err != nil {
			return err
		}
	}

	escrowQuery := `INSERT INTO snapshot_escrows (snapshot_id, car_id, renter, amount) VALUES ($1, $2, $3, $4)`
	for _, e := range snap.Escrows {
		if _, err := tx.ExecContext(ctx, escrowQuery, snapshotID, e.CarID, e.Renter, int64(e.Amount)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *archiveRepository) ListOperations(ctx context.Context, carID int64, limit int32) ([]domain.OperationRecord, error) {
	query := `SELECT id, kind, caller, car_id, COALESCE(subject, ''), amount, applied_on
	          FROM operations WHERE car_id = $1 ORDER BY id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, carID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.OperationRecord
	for rows.Next() {
		var rec domain.OperationRecord
		var amount int64
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Caller, &rec.CarID, &rec.Subject, &amount, &rec.AppliedOn); err != nil {
			return nil, err
		}
		rec.Amount = uint64(amount)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
