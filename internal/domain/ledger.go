package domain

// Escrow is a reservation held by the ledger against a pending rental.
// Tokens inside an escrow belong to neither party until the engine settles
// or releases them. At most one escrow exists per car.
type Escrow struct {
	CarID  int64  `json:"car_id"`
	Renter string `json:"renter"`
	Amount uint64 `json:"amount"`
}

// BalanceEntry is one identity's spendable balance at snapshot time.
type BalanceEntry struct {
	Identity string `json:"identity"`
	Balance  uint64 `json:"balance"`
}

// LedgerSnapshot is a point-in-time view of the whole ledger, taken under
// the core's critical section. sum(Entries) + sum(Escrows) + CommissionPool
// always equals TotalSupply.
type LedgerSnapshot struct {
	Entries        []BalanceEntry `json:"entries"`
	Escrows        []Escrow       `json:"escrows"`
	CommissionPool uint64         `json:"commission_pool"`
	TotalSupply    uint64         `json:"total_supply"`
	TakenOn        string         `json:"taken_on"`
}
