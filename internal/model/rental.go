// Package model defines the core domain types for rental price estimation.
package model

import "time"

// RentalRecord is one historical rental observation from the reservations
// store. It references vehicle type and branch locations by id; the joiner
// resolves those references into a denormalized row.
type RentalRecord struct {
	PickupTime               time.Time
	DropoffTime              time.Time
	ReservationID            int64
	AccountID                int64
	CarTypeID                int64
	PickupLocationID         int64
	DropoffLocationID        int64
	RentalPricePerDay        float64
	InsurancePlanPricePerDay float64
}

// VehicleType describes a rentable car class.
type VehicleType struct {
	Brand     string
	Model     string
	Seats     *int // nil when the source row has no seat count
	TypeID    int64
	Speed     int
	Luggage   int
	Doors     int
	Automatic bool
}

// Location is a branch location where vehicles are picked up or dropped off.
type Location struct {
	Street     string
	City       string
	State      string
	ZipCode    string
	Country    string
	LocationID int64
}

// AccountRecord links a rental to a customer. Consumed only to reach the
// credit signal.
type AccountRecord struct {
	Type         string
	EmailAddress string
	PhoneNumber  string
	ID           int64
	MemberID     int64
}

// CustomerRecord carries the identity the credit provider keys off.
type CustomerRecord struct {
	FirstName string
	LastName  string
	MemberID  int64
	Age       int
}
