package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository/memory"
)

const (
	testAdmin         = "admin-identity"
	testFee           = uint64(10)
	testUnitsPerToken = uint64(10_000_000_000_000)
)

type fixture struct {
	store   *memory.Store
	archive *spyArchive
	email   *spyEmail
	users   UserService
	ledger  LedgerService
	cars    CarService
	rental  RentalService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	archive := &spyArchive{}
	email := &spyEmail{}
	seq := store.Sequencer()

	ledger := NewLedgerService(seq, store.Ledger(), archive, testUnitsPerToken, testAdmin)
	return &fixture{
		store:   store,
		archive: archive,
		email:   email,
		users:   NewUserService(seq, store.Users(), archive),
		ledger:  ledger,
		cars:    NewCarService(seq, store.Cars(), archive),
		rental: NewRentalService(seq, store.Cars(), store.Ledger(), store.Users(),
			ledger, email, archive, testFee),
	}
}

// assertConserved verifies that no tokens were created or destroyed outside
// of minting.
func (f *fixture) assertConserved(t *testing.T) {
	t.Helper()
	snap, err := f.ledger.Snapshot(context.Background())
	require.NoError(t, err)
	var total uint64
	for _, e := range snap.Entries {
		total += e.Balance
	}
	for _, e := range snap.Escrows {
		total += e.Amount
	}
	total += snap.CommissionPool
	assert.Equal(t, snap.TotalSupply, total)
}

func (f *fixture) registerUser(t *testing.T, identity, name, email string) {
	t.Helper()
	_, err := f.users.Register(context.Background(), identity, RegisterUserInput{
		Name:         name,
		NationalID:   "ID-" + identity,
		LicenseClass: "B",
		Location:     "downtown",
		ContactEmail: email,
	})
	require.NoError(t, err)
}

func (f *fixture) addCar(t *testing.T, owner string) int64 {
	t.Helper()
	car, err := f.cars.AddCar(context.Background(), owner, AddCarInput{
		Brand:       "Toyota",
		Model:       "Corolla",
		VehicleType: "sedan",
		Capacity:    5,
		PlateNumber: "ABC-123",
		Location:    "lot 4",
		Condition:   "good",
		Insured:     true,
	})
	require.NoError(t, err)
	return car.ID
}

func TestRentalLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerUser(t, "owner", "Olga", "olga@example.com")
	f.registerUser(t, "renter", "Rhys", "rhys@example.com")
	carID := f.addCar(t, "owner")

	// A 1e18 native-unit top-up mints 100000 tokens at the fixed rate.
	minted, err := f.ledger.Credit(ctx, "renter", 1_000_000_000_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), minted)

	require.NoError(t, f.rental.List(ctx, "owner", carID))

	offer, err := f.rental.MakeOffer(ctx, "renter", carID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, offer.Index)
	assert.Equal(t, domain.OfferStatusInProcess, offer.Status)

	require.NoError(t, f.rental.AcceptOffer(ctx, "owner", carID, "renter"))

	t.Run("Acceptance escrows rate*duration plus the commission fee", func(t *testing.T) {
		bal, err := f.ledger.BalanceOf(ctx, "renter")
		require.NoError(t, err)
		assert.Equal(t, uint64(99_980), bal)

		status, err := f.cars.CheckRentalStatus(ctx, carID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusRented, status)
		f.assertConserved(t)
	})

	require.NoError(t, f.rental.StartTrip(ctx, "renter", carID))

	t.Run("Only the owner can end the trip", func(t *testing.T) {
		err := f.rental.EndTrip(ctx, "renter", carID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	require.NoError(t, f.rental.EndTrip(ctx, "owner", carID))

	t.Run("Settlement splits the escrow with zero remainder", func(t *testing.T) {
		renterBal, err := f.ledger.BalanceOf(ctx, "renter")
		require.NoError(t, err)
		assert.Equal(t, uint64(99_980), renterBal)

		ownerBal, err := f.ledger.BalanceOf(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, uint64(10), ownerBal)

		car, err := f.rental.GetCarDetails(ctx, carID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusListed, car.RentalStatus)
		assert.Empty(t, car.Offers)
		f.assertConserved(t)
	})

	t.Run("Administrator drains the commission pool", func(t *testing.T) {
		amount, err := f.rental.Withdraw(ctx, testAdmin)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), amount)

		adminBal, err := f.ledger.BalanceOf(ctx, testAdmin)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), adminBal)
		f.assertConserved(t)
	})

	t.Run("Lifecycle notifications were sent", func(t *testing.T) {
		kinds := make([]string, 0, len(f.email.sent))
		for _, s := range f.email.sent {
			kinds = append(kinds, s.Kind)
		}
		assert.Contains(t, kinds, "offer_received")
		assert.Contains(t, kinds, "offer_accepted")
		assert.Contains(t, kinds, "trip_completed_owner")
		assert.Contains(t, kinds, "trip_completed_renter")
	})

	t.Run("Every operation was archived", func(t *testing.T) {
		kinds := f.archive.kinds()
		assert.Contains(t, kinds, domain.OpCredit)
		assert.Contains(t, kinds, domain.OpList)
		assert.Contains(t, kinds, domain.OpMakeOffer)
		assert.Contains(t, kinds, domain.OpAcceptOffer)
		assert.Contains(t, kinds, domain.OpStartTrip)
		assert.Contains(t, kinds, domain.OpEndTrip)
		assert.Contains(t, kinds, domain.OpWithdraw)
	})
}

func TestListGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carID := f.addCar(t, "owner")

	t.Run("Only the owner lists", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.List(ctx, "someone-else", carID), domain.ErrUnauthorized)
	})

	t.Run("A car in repair cannot be listed", func(t *testing.T) {
		require.NoError(t, f.cars.UpdateStatus(ctx, "owner", carID, domain.CarStateRepair))
		assert.ErrorIs(t, f.rental.List(ctx, "owner", carID), domain.ErrInvalidState)
		require.NoError(t, f.cars.UpdateStatus(ctx, "owner", carID, domain.CarStateReady))
	})

	t.Run("Listing twice fails", func(t *testing.T) {
		require.NoError(t, f.rental.List(ctx, "owner", carID))
		assert.ErrorIs(t, f.rental.List(ctx, "owner", carID), domain.ErrInvalidState)
	})

	t.Run("Unknown car", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.List(ctx, "owner", 999), domain.ErrNotFound)
	})
}

func TestMakeOfferGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carID := f.addCar(t, "owner")

	t.Run("Offers require a listed car", func(t *testing.T) {
		_, err := f.rental.MakeOffer(ctx, "renter", carID, 1, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	require.NoError(t, f.rental.List(ctx, "owner", carID))

	t.Run("Owner cannot bid on own car", func(t *testing.T) {
		_, err := f.rental.MakeOffer(ctx, "owner", carID, 1, 10)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Solvency is not checked at offer time", func(t *testing.T) {
		offer, err := f.rental.MakeOffer(ctx, "broke-renter", carID, 100, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.OfferStatusInProcess, offer.Status)
	})

	t.Run("Offer indexes are stable and increasing", func(t *testing.T) {
		offer, err := f.rental.MakeOffer(ctx, "other-renter", carID, 2, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, offer.Index)

		require.NoError(t, f.rental.RejectOffer(ctx, "owner", carID, "broke-renter"))
		offer, err = f.rental.MakeOffer(ctx, "broke-renter", carID, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, offer.Index, "indexes are not reused after rejection")
	})
}

func TestAcceptOfferGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carID := f.addCar(t, "owner")
	require.NoError(t, f.rental.List(ctx, "owner", carID))

	t.Run("Insolvent renter aborts acceptance with no partial effects", func(t *testing.T) {
		_, err := f.rental.MakeOffer(ctx, "renter", carID, 1, 10)
		require.NoError(t, err)

		err = f.rental.AcceptOffer(ctx, "owner", carID, "renter")
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

		car, err := f.rental.GetCarDetails(ctx, carID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusListed, car.RentalStatus)
		require.Len(t, car.Offers, 1)
		assert.Equal(t, domain.OfferStatusInProcess, car.Offers[0].Status)
		f.assertConserved(t)
	})

	_, err := f.ledger.Credit(ctx, "renter", 1_000_000_000_000_000_000)
	require.NoError(t, err)
	_, err = f.rental.MakeOffer(ctx, "other-renter", carID, 2, 5)
	require.NoError(t, err)

	t.Run("Only the owner accepts", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.AcceptOffer(ctx, "renter", carID, "renter"), domain.ErrUnauthorized)
	})

	t.Run("Acceptance needs a pending offer from that renter", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.AcceptOffer(ctx, "owner", carID, "no-such-renter"), domain.ErrNotFound)
	})

	require.NoError(t, f.rental.AcceptOffer(ctx, "owner", carID, "renter"))

	t.Run("Other pending offers survive acceptance", func(t *testing.T) {
		car, err := f.rental.GetCarDetails(ctx, carID)
		require.NoError(t, err)
		assert.Len(t, car.Offers, 2)
		accepted := car.AcceptedOffer()
		require.NotNil(t, accepted)
		assert.Equal(t, "renter", accepted.Renter)
	})

	t.Run("A rented car accepts no second offer", func(t *testing.T) {
		err := f.rental.AcceptOffer(ctx, "owner", carID, "other-renter")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestCancelOffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.registerUser(t, "renter", "Rhys", "rhys@example.com")
	carID := f.addCar(t, "owner")
	require.NoError(t, f.rental.List(ctx, "owner", carID))

	_, err := f.ledger.Credit(ctx, "renter", 1_000_000_000_000_000_000)
	require.NoError(t, err)
	_, err = f.rental.MakeOffer(ctx, "renter", carID, 1, 10)
	require.NoError(t, err)
	require.NoError(t, f.rental.AcceptOffer(ctx, "owner", carID, "renter"))

	t.Run("Only the accepted renter cancels", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.CancelOffer(ctx, "owner", carID), domain.ErrUnauthorized)
	})

	t.Run("Cancellation refunds the full escrow and relists", func(t *testing.T) {
		require.NoError(t, f.rental.CancelOffer(ctx, "renter", carID))

		bal, err := f.ledger.BalanceOf(ctx, "renter")
		require.NoError(t, err)
		assert.Equal(t, uint64(100_000), bal)

		car, err := f.rental.GetCarDetails(ctx, carID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusListed, car.RentalStatus)
		assert.Empty(t, car.Offers)
		f.assertConserved(t)
	})

	t.Run("Cancellation after collection is too late", func(t *testing.T) {
		_, err = f.rental.MakeOffer(ctx, "renter", carID, 1, 10)
		require.NoError(t, err)
		require.NoError(t, f.rental.AcceptOffer(ctx, "owner", carID, "renter"))
		require.NoError(t, f.rental.StartTrip(ctx, "renter", carID))

		assert.ErrorIs(t, f.rental.CancelOffer(ctx, "renter", carID), domain.ErrInvalidState)
	})
}

func TestDelistCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carID := f.addCar(t, "owner")
	require.NoError(t, f.rental.List(ctx, "owner", carID))

	_, err := f.rental.MakeOffer(ctx, "renter-a", carID, 1, 10)
	require.NoError(t, err)
	_, err = f.rental.MakeOffer(ctx, "renter-b", carID, 2, 5)
	require.NoError(t, err)

	require.NoError(t, f.rental.Delist(ctx, "owner", carID))

	car, err := f.rental.GetCarDetails(ctx, carID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusNone, car.RentalStatus)
	assert.Empty(t, car.Offers, "delisting rejects every pending offer")

	t.Run("Delisting a rented car fails", func(t *testing.T) {
		require.NoError(t, f.rental.List(ctx, "owner", carID))
		_, err := f.ledger.Credit(ctx, "renter-a", 1_000_000_000_000_000_000)
		require.NoError(t, err)
		_, err = f.rental.MakeOffer(ctx, "renter-a", carID, 1, 10)
		require.NoError(t, err)
		require.NoError(t, f.rental.AcceptOffer(ctx, "owner", carID, "renter-a"))

		assert.ErrorIs(t, f.rental.Delist(ctx, "owner", carID), domain.ErrInvalidState)
	})
}

func TestStartTripGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carID := f.addCar(t, "owner")
	require.NoError(t, f.rental.List(ctx, "owner", carID))

	t.Run("Trip cannot start before acceptance", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.StartTrip(ctx, "renter", carID), domain.ErrInvalidState)
	})

	_, err := f.ledger.Credit(ctx, "renter", 1_000_000_000_000_000_000)
	require.NoError(t, err)
	_, err = f.rental.MakeOffer(ctx, "renter", carID, 1, 10)
	require.NoError(t, err)
	require.NoError(t, f.rental.AcceptOffer(ctx, "owner", carID, "renter"))

	t.Run("Only the accepted renter collects the car", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.StartTrip(ctx, "owner", carID), domain.ErrUnauthorized)
		assert.ErrorIs(t, f.rental.StartTrip(ctx, "someone", carID), domain.ErrUnauthorized)
	})

	t.Run("Ending before collection fails", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.EndTrip(ctx, "owner", carID), domain.ErrInvalidState)
	})

	require.NoError(t, f.rental.StartTrip(ctx, "renter", carID))

	t.Run("Collecting twice fails", func(t *testing.T) {
		assert.ErrorIs(t, f.rental.StartTrip(ctx, "renter", carID), domain.ErrInvalidState)
	})
}

func TestGetOfferAndListingInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carID := f.addCar(t, "owner")
	require.NoError(t, f.rental.List(ctx, "owner", carID))
	_, err := f.rental.MakeOffer(ctx, "renter", carID, 3, 4)
	require.NoError(t, err)

	t.Run("GetOfferDetails by stable index", func(t *testing.T) {
		offer, err := f.rental.GetOfferDetails(ctx, carID, 0)
		require.NoError(t, err)
		assert.Equal(t, "renter", offer.Renter)
		assert.Equal(t, uint64(3), offer.Rate)

		_, err = f.rental.GetOfferDetails(ctx, carID, 5)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("GetListingInfo shows status and offers", func(t *testing.T) {
		info, err := f.rental.GetListingInfo(ctx, carID)
		require.NoError(t, err)
		assert.Equal(t, carID, info.CarID)
		assert.Equal(t, domain.RentalStatusListed, info.RentalStatus)
		assert.Len(t, info.Offers, 1)
	})
}

func TestEscrowAmount(t *testing.T) {
	t.Run("Computes rate*duration+fee", func(t *testing.T) {
		amount, err := escrowAmount(3, 4, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(22), amount)
	})

	t.Run("Zero rate is legal", func(t *testing.T) {
		amount, err := escrowAmount(0, 100, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), amount)
	})

	t.Run("Product overflow is rejected", func(t *testing.T) {
		_, err := escrowAmount(1<<40, 1<<40, 10)
		assert.ErrorIs(t, err, domain.ErrOverflow)
	})

	t.Run("Fee overflow is rejected", func(t *testing.T) {
		_, err := escrowAmount(1, 18446744073709551615, 10)
		assert.ErrorIs(t, err, domain.ErrOverflow)
	})
}
