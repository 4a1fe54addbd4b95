package auth

import (
	"rentaride/internal/db"
)

// Authorization policy, in one place instead of scattered per handler.

const (
	RoleRenter = "renter"
	RoleOwner  = "owner"
)

// IsOwnerRole reports whether the user may use the fleet and dashboard surface.
func IsOwnerRole(u *db.User) bool {
	return u != nil && u.Role == RoleOwner
}

// CanManageCar reports whether the user owns the car. A soft-deleted car has
// no owner, so nobody can manage it.
func CanManageCar(u *db.User, c *db.Car) bool {
	return u != nil && c.OwnerID.Valid && int(c.OwnerID.Int64) == u.ID
}

// CanManageBooking reports whether the user is the booking's owner and may
// change its status. The owner reference is the one denormalized onto the
// booking at creation time.
func CanManageBooking(u *db.User, b *db.Booking) bool {
	return u != nil && b.OwnerID == u.ID
}
