package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application. A missing license key or a
// disabled flag yields a no-op app.
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Custom event helpers

// RecordUserRegistered records a user registration
func (nr *NewRelicApp) RecordUserRegistered(hasCar bool) {
	nr.RecordCustomEvent("UserRegistered", map[string]interface{}{
		"has_car":   hasCar,
		"timestamp": time.Now().Unix(),
	})
}

// RecordRideCreated records ride creation
func (nr *NewRelicApp) RecordRideCreated(rideID int64, allowedSpaces int) {
	nr.RecordCustomEvent("RideCreated", map[string]interface{}{
		"ride_id":        rideID,
		"allowed_spaces": allowedSpaces,
		"timestamp":      time.Now().Unix(),
	})
}

// RecordRideStatusChange records a ride lifecycle transition
func (nr *NewRelicApp) RecordRideStatusChange(rideID int64, status string) {
	nr.RecordCustomEvent("RideStatusChange", map[string]interface{}{
		"ride_id": rideID,
		"status":  status,
	})
}

// RecordSnapshotSize records the persisted entity counts after a save
func (nr *NewRelicApp) RecordSnapshotSize(users, rides int) {
	nr.RecordCustomMetric("custom/snapshot/users", float64(users))
	nr.RecordCustomMetric("custom/snapshot/rides", float64(rides))
}
