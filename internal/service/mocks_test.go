package service

import (
	"context"
	"sync"

	"carshare-backend/internal/domain"
)

// spyArchive records operations in memory instead of Postgres.
type spyArchive struct {
	mu      sync.Mutex
	records []domain.OperationRecord
	snaps   []domain.LedgerSnapshot
}

func (a *spyArchive) RecordOperation(ctx context.Context, rec *domain.OperationRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec.ID = int64(len(a.records) + 1)
	a.records = append(a.records, *rec)
	return nil
}

func (a *spyArchive) SaveSnapshot(ctx context.Context, snap *domain.LedgerSnapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snaps = append(a.snaps, *snap)
	return nil
}

func (a *spyArchive) ListOperations(ctx context.Context, carID int64, limit int32) ([]domain.OperationRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.OperationRecord
	for i := len(a.records) - 1; i >= 0 && int32(len(out)) < limit; i-- {
		if a.records[i].CarID != nil && *a.records[i].CarID == carID {
			out = append(out, a.records[i])
		}
	}
	return out, nil
}

func (a *spyArchive) kinds() []domain.OperationKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.OperationKind
	for _, rec := range a.records {
		out = append(out, rec.Kind)
	}
	return out
}

type sentEmail struct {
	Kind string
	To   string
}

// spyEmail records notification sends.
type spyEmail struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (e *spyEmail) record(kind, to string) {
	e.mu.Lock()
	e.sent = append(e.sent, sentEmail{Kind: kind, To: to})
	e.mu.Unlock()
}

func (e *spyEmail) SendOfferReceived(ctx context.Context, to, renterName string, carID int64) error {
	e.record("offer_received", to)
	return nil
}

func (e *spyEmail) SendOfferAccepted(ctx context.Context, to string, carID int64, amount uint64) error {
	e.record("offer_accepted", to)
	return nil
}

func (e *spyEmail) SendOfferRejected(ctx context.Context, to string, carID int64) error {
	e.record("offer_rejected", to)
	return nil
}

func (e *spyEmail) SendTripCompleted(ctx context.Context, to, role string, carID int64, amount uint64) error {
	e.record("trip_completed_"+role, to)
	return nil
}
