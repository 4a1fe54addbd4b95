package service

import "time"

// NoOfDays counts the days between pickup and return, rounding any partial day
// up. Inputs are calendar dates (midnight UTC), so a same-day pickup and
// return counts as zero days.
func NoOfDays(pickupDate, returnDate time.Time) int {
	d := returnDate.Sub(pickupDate)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ComputePrice is the whole pricing model: daily rate times day count, in the
// single configured currency.
func ComputePrice(pricePerDay int, pickupDate, returnDate time.Time) int {
	return pricePerDay * NoOfDays(pickupDate, returnDate)
}
