package model

import "time"

// JoinedRecord is a rental with its vehicle type and both branch locations
// resolved. Produced by the record joiner; every reference has been verified,
// so the denormalized fields are always populated.
type JoinedRecord struct {
	PickupTime               time.Time
	DropoffTime              time.Time
	Brand                    string
	Model                    string
	PickupCity               string
	DropoffCity              string
	Seats                    *int
	Customer                 *CustomerRecord // nil when no account linkage resolved
	ReservationID            int64
	AccountID                int64
	RentalPricePerDay        float64
	InsurancePlanPricePerDay float64
}

// DurationDays returns the rental length in whole days, truncated toward
// zero, matching how the price label was defined historically. A negative
// result means the record violates the dropoff > pickup invariant.
func (r *JoinedRecord) DurationDays() int {
	return int(r.DropoffTime.Sub(r.PickupTime).Hours() / 24)
}

// FeatureVector is the fixed input shape the pricing model consumes.
// Categorical fields are raw level strings; numeric fields are passed to the
// regressor unscaled.
type FeatureVector struct {
	Brand        string
	Model        string
	PickupCity   string
	Seats        float64
	PickupDow    float64
	PickupMonth  float64
	DropoffDow   float64
	DropoffMonth float64
	CreditScore  float64
}

// TrainingRow is one feature-ready observation: a FeatureVector plus the
// derived price label. Numeric fields may hold NaN between derivation and
// imputation; a finished training frame contains no NaN.
type TrainingRow struct {
	FeatureVector
	Price float64
}
