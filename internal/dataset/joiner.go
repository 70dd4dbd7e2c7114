// Package dataset builds the training frame: it joins raw rental records
// into denormalized rows and derives the model's feature columns.
package dataset

import (
	"log/slog"

	"github.com/fareflow/fareflow/internal/model"
)

// JoinInputs holds the raw table snapshots the joiner merges. Accounts and
// Customers are optional; they only feed the credit signal.
type JoinInputs struct {
	Rentals      []model.RentalRecord
	VehicleTypes []model.VehicleType
	Locations    []model.Location
	Accounts     []model.AccountRecord
	Customers    []model.CustomerRecord
}

// Join merges the raw snapshots into denormalized records. All three
// required joins are inner joins: a rental whose vehicle type, pickup
// location, or dropoff location does not resolve is dropped entirely, not
// null-padded. The pickup and dropoff location joins are independent even
// when both ids point at the same branch.
func Join(in JoinInputs) []model.JoinedRecord {
	typesByID := make(map[int64]*model.VehicleType, len(in.VehicleTypes))
	for i := range in.VehicleTypes {
		typesByID[in.VehicleTypes[i].TypeID] = &in.VehicleTypes[i]
	}

	locationsByID := make(map[int64]*model.Location, len(in.Locations))
	for i := range in.Locations {
		locationsByID[in.Locations[i].LocationID] = &in.Locations[i]
	}

	accountsByID := make(map[int64]*model.AccountRecord, len(in.Accounts))
	for i := range in.Accounts {
		accountsByID[in.Accounts[i].ID] = &in.Accounts[i]
	}

	customersByMember := make(map[int64]*model.CustomerRecord, len(in.Customers))
	for i := range in.Customers {
		customersByMember[in.Customers[i].MemberID] = &in.Customers[i]
	}

	joined := make([]model.JoinedRecord, 0, len(in.Rentals))
	dropped := 0

	for _, rental := range in.Rentals {
		vt, ok := typesByID[rental.CarTypeID]
		if !ok {
			dropped++
			continue
		}
		pickup, ok := locationsByID[rental.PickupLocationID]
		if !ok {
			dropped++
			continue
		}
		dropoff, ok := locationsByID[rental.DropoffLocationID]
		if !ok {
			dropped++
			continue
		}

		record := model.JoinedRecord{
			ReservationID:            rental.ReservationID,
			AccountID:                rental.AccountID,
			PickupTime:               rental.PickupTime,
			DropoffTime:              rental.DropoffTime,
			RentalPricePerDay:        rental.RentalPricePerDay,
			InsurancePlanPricePerDay: rental.InsurancePlanPricePerDay,
			Brand:                    vt.Brand,
			Model:                    vt.Model,
			Seats:                    vt.Seats,
			PickupCity:               pickup.City,
			DropoffCity:              dropoff.City,
		}

		// Optional linkage: account -> customer. Missing linkage does not
		// drop the row; the credit provider decides what to do without it.
		if account, ok := accountsByID[rental.AccountID]; ok {
			if customer, ok := customersByMember[account.MemberID]; ok {
				record.Customer = customer
			}
		}

		joined = append(joined, record)
	}

	if dropped > 0 {
		slog.Debug("Dropped rentals with unresolved joins", "dropped", dropped, "joined", len(joined))
	}

	return joined
}
