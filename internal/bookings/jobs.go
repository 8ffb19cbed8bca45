package bookings

import (
	"context"
	"log"
	"time"
)

// JobProcessor runs the payment-timeout sweep that releases seats held
// by unpaid bookings once their payment window closes.
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SweepInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval: 30 * time.Second,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts the background sweep
func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("Starting booking expiry sweep...")
	go jp.startExpirySweep(ctx)
}

// Stop stops the background sweep
func (jp *JobProcessor) Stop() {
	log.Println("Stopping booking expiry sweep...")
	close(jp.done)
}

func (jp *JobProcessor) startExpirySweep(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SweepInterval)
	defer ticker.Stop()

	log.Printf("Started booking expiry sweep with %v interval", jp.config.SweepInterval)

	for {
		select {
		case <-ticker.C:
			jp.sweepExpiredBookings(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) sweepExpiredBookings(ctx context.Context) {
	processed, err := jp.service.ReleaseExpired(ctx)
	if err != nil {
		log.Printf("Error releasing expired bookings: %v", err)
		return
	}

	if processed > 0 {
		log.Printf("Released %d expired bookings", processed)
	}
}

// GetJobStatus reports the sweep state for the status endpoint.
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	status := "running"
	select {
	case <-jp.done:
		status = "stopped"
	default:
	}

	return map[string]interface{}{
		"sweep_interval": jp.config.SweepInterval.String(),
		"status":         status,
	}
}
