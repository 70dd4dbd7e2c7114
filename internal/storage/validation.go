package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fareflow/fareflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidRental  = errors.New("invalid rental record")
	ErrInvalidVehicle = errors.New("invalid vehicle type")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRentals validates a slice of rental records before persisting.
func validateRentals(rentals []model.RentalRecord) error {
	if rentals == nil {
		return fmt.Errorf("%w: rentals", ErrNilParameter)
	}

	for i, rental := range rentals {
		if err := validateRental(&rental); err != nil {
			return fmt.Errorf("rental at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRental validates a single rental record.
func validateRental(rental *model.RentalRecord) error {
	if rental.PickupTime.IsZero() || rental.DropoffTime.IsZero() {
		return fmt.Errorf("%w: pickup and dropoff times are required", ErrInvalidRental)
	}
	if !rental.DropoffTime.After(rental.PickupTime) {
		return fmt.Errorf("%w: dropoff time must be after pickup time", ErrInvalidRental)
	}
	if rental.RentalPricePerDay < 0 || rental.InsurancePlanPricePerDay < 0 {
		return fmt.Errorf("%w: negative price per day", ErrInvalidRental)
	}
	return nil
}

// validateVehicleTypes validates a slice of vehicle types before persisting.
func validateVehicleTypes(types []model.VehicleType) error {
	if types == nil {
		return fmt.Errorf("%w: types", ErrNilParameter)
	}

	for i, vt := range types {
		if strings.TrimSpace(vt.Brand) == "" || strings.TrimSpace(vt.Model) == "" {
			return fmt.Errorf("vehicle type at index %d: %w: brand and model are required", i, ErrInvalidVehicle)
		}
	}
	return nil
}
