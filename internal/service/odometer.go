package service

import (
	"context"
	"sync"
)

// OdometerReader reads the current odometer value of a vehicle. Production
// deployments back this with the telematics provider; the stub below stands
// in until that integration lands.
type OdometerReader interface {
	Read(ctx context.Context, vehicleID string) (int64, error)
}

// StubOdometerReader returns monotonically increasing readings per vehicle,
// starting at 1000 and advancing 200 per read.
type StubOdometerReader struct {
	mu   sync.Mutex
	last map[string]int64
}

// NewStubOdometerReader creates a new StubOdometerReader.
func NewStubOdometerReader() *StubOdometerReader {
	return &StubOdometerReader{last: make(map[string]int64)}
}

// Read returns the next reading for the vehicle.
func (r *StubOdometerReader) Read(_ context.Context, vehicleID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.last[vehicleID]
	if !ok {
		v = 800
	}
	v += 200
	r.last[vehicleID] = v
	return v, nil
}
