package entities

type DashboardData struct {
	TotalCars         int               `json:"totalCars"`
	TotalBookings     int               `json:"totalBookings"`
	PendingBookings   int               `json:"pendingBookings"`
	CompletedBookings int               `json:"completedBookings"`
	RecentBookings    []BookingResponse `json:"recentBookings"`
	MonthlyRevenue    int               `json:"monthlyRevenue"`
}
