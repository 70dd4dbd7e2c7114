package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/model"
)

// FetchRentalRecords returns a snapshot of all rental records.
func (s *SQLiteStorage) FetchRentalRecords(ctx context.Context) ([]model.RentalRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT reservation_id, account_id, car_type_id, pickup_time, dropoff_time,
		       pickup_location_id, dropoff_location_id,
		       rental_price_per_day, insurance_plan_price_per_day
		FROM rentals
		ORDER BY reservation_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rentals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rentals []model.RentalRecord
	for rows.Next() {
		var r model.RentalRecord
		if err := rows.Scan(
			&r.ReservationID, &r.AccountID, &r.CarTypeID,
			&r.PickupTime, &r.DropoffTime,
			&r.PickupLocationID, &r.DropoffLocationID,
			&r.RentalPricePerDay, &r.InsurancePlanPricePerDay,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, r)
	}

	return rentals, rows.Err()
}

// FetchVehicleTypes returns a snapshot of all vehicle types.
func (s *SQLiteStorage) FetchVehicleTypes(ctx context.Context) ([]model.VehicleType, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type_id, brand, model, seats, speed, luggage, doors, automatic
		FROM vehicle_types
		ORDER BY type_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicle types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var types []model.VehicleType
	for rows.Next() {
		vt, err := scanVehicleType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, *vt)
	}

	return types, rows.Err()
}

// GetVehicleType retrieves a single vehicle type by id.
func (s *SQLiteStorage) GetVehicleType(ctx context.Context, typeID int64) (*model.VehicleType, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT type_id, brand, model, seats, speed, luggage, doors, automatic
		FROM vehicle_types
		WHERE type_id = ?
	`, typeID)

	vt, err := scanVehicleType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vehicle type %d: %w", typeID, common.ErrNotFound)
	}
	return vt, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicleType(row rowScanner) (*model.VehicleType, error) {
	var vt model.VehicleType
	var seats sql.NullInt64
	if err := row.Scan(&vt.TypeID, &vt.Brand, &vt.Model, &seats,
		&vt.Speed, &vt.Luggage, &vt.Doors, &vt.Automatic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan vehicle type: %w", err)
	}
	if seats.Valid {
		n := int(seats.Int64)
		vt.Seats = &n
	}
	return &vt, nil
}

// FetchLocations returns a snapshot of all branch locations.
func (s *SQLiteStorage) FetchLocations(ctx context.Context) ([]model.Location, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT location_id, street, city, state, zip_code, country
		FROM locations
		ORDER BY location_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.LocationID, &loc.Street, &loc.City,
			&loc.State, &loc.ZipCode, &loc.Country); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

// GetLocation retrieves a single branch location by id.
func (s *SQLiteStorage) GetLocation(ctx context.Context, locationID int64) (*model.Location, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var loc model.Location
	err := s.db.QueryRowContext(ctx, `
		SELECT location_id, street, city, state, zip_code, country
		FROM locations
		WHERE location_id = ?
	`, locationID).Scan(&loc.LocationID, &loc.Street, &loc.City,
		&loc.State, &loc.ZipCode, &loc.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %d: %w", locationID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan location: %w", err)
	}
	return &loc, nil
}

// FetchAccounts returns a snapshot of all accounts.
func (s *SQLiteStorage) FetchAccounts(ctx context.Context) ([]model.AccountRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, email_address, phone_number, member_id
		FROM accounts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.AccountRecord
	for rows.Next() {
		var a model.AccountRecord
		if err := rows.Scan(&a.ID, &a.Type, &a.EmailAddress, &a.PhoneNumber, &a.MemberID); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// FetchCustomers returns a snapshot of all customers.
func (s *SQLiteStorage) FetchCustomers(ctx context.Context) ([]model.CustomerRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, first_name, last_name, age
		FROM customers
		ORDER BY member_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var customers []model.CustomerRecord
	for rows.Next() {
		var c model.CustomerRecord
		if err := rows.Scan(&c.MemberID, &c.FirstName, &c.LastName, &c.Age); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// SaveRentalRecords persists rental records, ignoring duplicates.
func (s *SQLiteStorage) SaveRentalRecords(ctx context.Context, rentals []model.RentalRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRentals(rentals); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO rentals (
			reservation_id, account_id, car_type_id, pickup_time, dropoff_time,
			pickup_location_id, dropoff_location_id,
			rental_price_per_day, insurance_plan_price_per_day
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rentals {
		if _, err := stmt.ExecContext(ctx,
			r.ReservationID, r.AccountID, r.CarTypeID, r.PickupTime, r.DropoffTime,
			r.PickupLocationID, r.DropoffLocationID,
			r.RentalPricePerDay, r.InsurancePlanPricePerDay,
		); err != nil {
			return fmt.Errorf("failed to insert rental %d: %w", r.ReservationID, err)
		}
	}

	return tx.Commit()
}

// SaveVehicleTypes persists vehicle types, ignoring duplicates.
func (s *SQLiteStorage) SaveVehicleTypes(ctx context.Context, types []model.VehicleType) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVehicleTypes(types); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO vehicle_types (
			type_id, brand, model, seats, speed, luggage, doors, automatic
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, vt := range types {
		var seats any
		if vt.Seats != nil {
			seats = *vt.Seats
		}
		if _, err := stmt.ExecContext(ctx,
			vt.TypeID, vt.Brand, vt.Model, seats,
			vt.Speed, vt.Luggage, vt.Doors, vt.Automatic,
		); err != nil {
			return fmt.Errorf("failed to insert vehicle type %d: %w", vt.TypeID, err)
		}
	}

	return tx.Commit()
}

// SaveLocations persists branch locations, ignoring duplicates.
func (s *SQLiteStorage) SaveLocations(ctx context.Context, locations []model.Location) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if locations == nil {
		return fmt.Errorf("%w: locations", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO locations (
			location_id, street, city, state, zip_code, country
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, loc := range locations {
		if _, err := stmt.ExecContext(ctx,
			loc.LocationID, loc.Street, loc.City, loc.State, loc.ZipCode, loc.Country,
		); err != nil {
			return fmt.Errorf("failed to insert location %d: %w", loc.LocationID, err)
		}
	}

	return tx.Commit()
}

// SaveAccounts persists accounts, ignoring duplicates.
func (s *SQLiteStorage) SaveAccounts(ctx context.Context, accounts []model.AccountRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if accounts == nil {
		return fmt.Errorf("%w: accounts", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO accounts (
			id, type, email_address, phone_number, member_id
		) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range accounts {
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.Type, a.EmailAddress, a.PhoneNumber, a.MemberID,
		); err != nil {
			return fmt.Errorf("failed to insert account %d: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// SaveCustomers persists customers, ignoring duplicates.
func (s *SQLiteStorage) SaveCustomers(ctx context.Context, customers []model.CustomerRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if customers == nil {
		return fmt.Errorf("%w: customers", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO customers (
			member_id, first_name, last_name, age
		) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range customers {
		if _, err := stmt.ExecContext(ctx,
			c.MemberID, c.FirstName, c.LastName, c.Age,
		); err != nil {
			return fmt.Errorf("failed to insert customer %d: %w", c.MemberID, err)
		}
	}

	return tx.Commit()
}
