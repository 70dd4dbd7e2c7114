package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fareflow/fareflow/internal/cli"
	"github.com/fareflow/fareflow/internal/model"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample reservation data",
		Long: `Populate the local database with a small set of sample customers,
accounts, car types, branch locations, and historical rentals.

Useful for trying out training and prediction without a production
data export. You probably should not run this against production.`,
		RunE: runSeed,
	}
}

func intPtr(n int) *int { return &n }

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	customers := []model.CustomerRecord{
		{MemberID: 1, FirstName: "John", LastName: "Doe", Age: 33},
		{MemberID: 2, FirstName: "Jane", LastName: "Smith", Age: 38},
	}

	accounts := []model.AccountRecord{
		{ID: 1, Type: "Customer", EmailAddress: "john.doe@example.com", PhoneNumber: "555-1234", MemberID: 1},
		{ID: 2, Type: "Customer", EmailAddress: "jane.smith@example.com", PhoneNumber: "555-5678", MemberID: 2},
	}

	carTypes := []model.VehicleType{
		{TypeID: 1, Brand: "Toyota", Model: "Camry", Seats: intPtr(5), Speed: 120, Luggage: 3, Doors: 4, Automatic: true},
		{TypeID: 2, Brand: "Honda", Model: "Civic", Seats: intPtr(5), Speed: 115, Luggage: 2, Doors: 4, Automatic: true},
		{TypeID: 3, Brand: "Ford", Model: "Focus", Seats: intPtr(5), Speed: 110, Luggage: 2, Doors: 4, Automatic: false},
		{TypeID: 4, Brand: "BMW", Model: "X5", Seats: intPtr(7), Speed: 140, Luggage: 4, Doors: 5, Automatic: true},
	}

	locations := []model.Location{
		{LocationID: 1, Street: "123 Main St", City: "New York", State: "NY", ZipCode: "10001", Country: "USA"},
		{LocationID: 2, Street: "456 Elm St", City: "Los Angeles", State: "CA", ZipCode: "90001", Country: "USA"},
		{LocationID: 3, Street: "789 Oak Ave", City: "Chicago", State: "IL", ZipCode: "60601", Country: "USA"},
	}

	rentals := []model.RentalRecord{
		{
			ReservationID: 1, AccountID: 1, CarTypeID: 1,
			PickupTime:  time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC),
			DropoffTime: time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC),
			PickupLocationID: 1, DropoffLocationID: 2,
			RentalPricePerDay: 50.00, InsurancePlanPricePerDay: 5.00,
		},
		{
			ReservationID: 2, AccountID: 2, CarTypeID: 2,
			PickupTime:  time.Date(2024, 12, 22, 10, 0, 0, 0, time.UTC),
			DropoffTime: time.Date(2024, 12, 27, 10, 0, 0, 0, time.UTC),
			PickupLocationID: 2, DropoffLocationID: 1,
			RentalPricePerDay: 45.00, InsurancePlanPricePerDay: 4.00,
		},
		{
			ReservationID: 3, AccountID: 1, CarTypeID: 3,
			PickupTime:  time.Date(2025, 1, 3, 8, 30, 0, 0, time.UTC),
			DropoffTime: time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC),
			PickupLocationID: 3, DropoffLocationID: 3,
			RentalPricePerDay: 38.00, InsurancePlanPricePerDay: 6.00,
		},
		{
			ReservationID: 4, AccountID: 2, CarTypeID: 4,
			PickupTime:  time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
			DropoffTime: time.Date(2025, 2, 16, 18, 0, 0, 0, time.UTC),
			PickupLocationID: 1, DropoffLocationID: 1,
			RentalPricePerDay: 95.00, InsurancePlanPricePerDay: 12.00,
		},
		{
			ReservationID: 5, AccountID: 1, CarTypeID: 2,
			PickupTime:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
			DropoffTime: time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC),
			PickupLocationID: 2, DropoffLocationID: 3,
			RentalPricePerDay: 42.00, InsurancePlanPricePerDay: 4.50,
		},
		{
			ReservationID: 6, AccountID: 2, CarTypeID: 1,
			PickupTime:  time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC),
			DropoffTime: time.Date(2025, 4, 5, 11, 0, 0, 0, time.UTC),
			PickupLocationID: 3, DropoffLocationID: 1,
			RentalPricePerDay: 52.00, InsurancePlanPricePerDay: 5.50,
		},
	}

	if err := store.SaveCustomers(ctx, customers); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}
	if err := store.SaveAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}
	if err := store.SaveVehicleTypes(ctx, carTypes); err != nil {
		return fmt.Errorf("failed to seed vehicle types: %w", err)
	}
	if err := store.SaveLocations(ctx, locations); err != nil {
		return fmt.Errorf("failed to seed locations: %w", err)
	}
	if err := store.SaveRentalRecords(ctx, rentals); err != nil {
		return fmt.Errorf("failed to seed rentals: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render("✅ Sample data loaded"))
	fmt.Printf("  %s %d customers, %d accounts, %d car types, %d locations, %d rentals\n",
		cli.SubtleStyle.Render("seeded:"),
		len(customers), len(accounts), len(carTypes), len(locations), len(rentals))

	return nil
}
