package domain

// VehicleUtilization summarizes how much of the fleet is in active use.
type VehicleUtilization struct {
	TotalVehicles   int64
	ActiveVehicles  int64
	UtilizationRate float64 // percent, rounded to two decimals
}

// DashboardStats is the read-only rollup served to administrators.
type DashboardStats struct {
	TotalRevenue       float64
	ActiveTrips        int64
	VehicleUtilization VehicleUtilization
	TotalBookings      int64
	CompletedTrips     int64
}
