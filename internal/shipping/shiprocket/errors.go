package shiprocket

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured carrier credentials are missing
	ErrNotConfigured = errors.New("shiprocket is not configured")
	// ErrAuthFailed the carrier rejected the login credentials
	ErrAuthFailed = errors.New("shiprocket authentication failed")
	// ErrNoCouriersAvailable serviceability returned no courier options
	ErrNoCouriersAvailable = errors.New("no couriers available for shipment")
)

// CarrierError failure reported by the carrier API
type CarrierError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *CarrierError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("shiprocket %s failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("shiprocket %s failed: %s (status %d)", e.Op, e.Message, e.StatusCode)
}

// IsCarrierError reports whether err is a carrier API failure
func IsCarrierError(err error) bool {
	var carrierErr *CarrierError
	return errors.As(err, &carrierErr)
}
