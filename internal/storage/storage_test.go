package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/model"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intPtr(n int) *int { return &n }

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyString))
}

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	s := setupTestStorage(t)

	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSaveAndFetchRentalRecords(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	rentals := []model.RentalRecord{
		{
			ReservationID:            101,
			AccountID:                1,
			CarTypeID:                1,
			PickupTime:               time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
			DropoffTime:              time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC),
			PickupLocationID:         1,
			DropoffLocationID:        2,
			RentalPricePerDay:        50,
			InsurancePlanPricePerDay: 5,
		},
		{
			ReservationID:            102,
			AccountID:                2,
			CarTypeID:                2,
			PickupTime:               time.Date(2025, 1, 3, 14, 0, 0, 0, time.UTC),
			DropoffTime:              time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			PickupLocationID:         2,
			DropoffLocationID:        2,
			RentalPricePerDay:        40,
			InsurancePlanPricePerDay: 0,
		},
	}

	require.NoError(t, s.SaveRentalRecords(ctx, rentals))

	got, err := s.FetchRentalRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(101), got[0].ReservationID)
	assert.True(t, got[0].PickupTime.Equal(rentals[0].PickupTime))
	assert.True(t, got[0].DropoffTime.Equal(rentals[0].DropoffTime))
	assert.Equal(t, 50.0, got[0].RentalPricePerDay)
	assert.Equal(t, 5.0, got[0].InsurancePlanPricePerDay)
	assert.Equal(t, int64(102), got[1].ReservationID)
}

func TestSaveRentalRecords_IgnoresDuplicates(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	rental := model.RentalRecord{
		ReservationID:     101,
		CarTypeID:         1,
		PickupTime:        time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
		DropoffTime:       time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC),
		PickupLocationID:  1,
		DropoffLocationID: 1,
		RentalPricePerDay: 50,
	}

	require.NoError(t, s.SaveRentalRecords(ctx, []model.RentalRecord{rental}))
	require.NoError(t, s.SaveRentalRecords(ctx, []model.RentalRecord{rental}))

	got, err := s.FetchRentalRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSaveRentalRecords_Validation(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		rentals []model.RentalRecord
	}{
		{name: "nil slice", rentals: nil},
		{
			name: "zero times",
			rentals: []model.RentalRecord{
				{ReservationID: 1, CarTypeID: 1, RentalPricePerDay: 50},
			},
		},
		{
			name: "dropoff before pickup",
			rentals: []model.RentalRecord{
				{
					ReservationID:     1,
					CarTypeID:         1,
					PickupTime:        time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC),
					DropoffTime:       time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
					RentalPricePerDay: 50,
				},
			},
		},
		{
			name: "negative price",
			rentals: []model.RentalRecord{
				{
					ReservationID:     1,
					CarTypeID:         1,
					PickupTime:        time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
					DropoffTime:       time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC),
					RentalPricePerDay: -1,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, s.SaveRentalRecords(ctx, tt.rentals))
		})
	}
}

func TestSaveAndFetchVehicleTypes(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	types := []model.VehicleType{
		{TypeID: 1, Brand: "Toyota", Model: "Camry", Seats: intPtr(5), Doors: 4, Automatic: true},
		{TypeID: 2, Brand: "Honda", Model: "Civic", Seats: nil, Doors: 4, Automatic: true},
	}

	require.NoError(t, s.SaveVehicleTypes(ctx, types))

	got, err := s.FetchVehicleTypes(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Toyota", got[0].Brand)
	require.NotNil(t, got[0].Seats)
	assert.Equal(t, 5, *got[0].Seats)

	// NULL seat counts survive the round trip as nil.
	assert.Equal(t, "Honda", got[1].Brand)
	assert.Nil(t, got[1].Seats)
}

func TestSaveVehicleTypes_RequiresBrandAndModel(t *testing.T) {
	s := setupTestStorage(t)

	err := s.SaveVehicleTypes(context.Background(), []model.VehicleType{
		{TypeID: 1, Brand: "", Model: "Camry"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidVehicle))
}

func TestGetVehicleType(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveVehicleTypes(ctx, []model.VehicleType{
		{TypeID: 7, Brand: "Ford", Model: "Focus", Seats: intPtr(5)},
	}))

	got, err := s.GetVehicleType(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Ford", got.Brand)
	assert.Equal(t, "Focus", got.Model)

	_, err = s.GetVehicleType(ctx, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSaveAndFetchLocations(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	locations := []model.Location{
		{LocationID: 1, Street: "123 Main St", City: "New York", State: "NY", ZipCode: "10001", Country: "USA"},
		{LocationID: 2, Street: "456 Sunset Blvd", City: "Los Angeles", State: "CA", ZipCode: "90001", Country: "USA"},
	}

	require.NoError(t, s.SaveLocations(ctx, locations))

	got, err := s.FetchLocations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "New York", got[0].City)
	assert.Equal(t, "Los Angeles", got[1].City)
}

func TestGetLocation(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLocations(ctx, []model.Location{
		{LocationID: 3, City: "Chicago", State: "IL", Country: "USA"},
	}))

	got, err := s.GetLocation(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Chicago", got.City)

	_, err = s.GetLocation(ctx, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSaveAndFetchAccountsAndCustomers(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCustomers(ctx, []model.CustomerRecord{
		{MemberID: 10, FirstName: "Ada", LastName: "Lovelace", Age: 36},
	}))
	require.NoError(t, s.SaveAccounts(ctx, []model.AccountRecord{
		{ID: 1, Type: "personal", EmailAddress: "ada@example.com", PhoneNumber: "555-0100", MemberID: 10},
	}))

	accounts, err := s.FetchAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(10), accounts[0].MemberID)

	customers, err := s.FetchCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada", customers[0].FirstName)
	assert.Equal(t, 36, customers[0].Age)
}

func TestFetch_EmptyDatabase(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	rentals, err := s.FetchRentalRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, rentals)

	types, err := s.FetchVehicleTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)
}
