package extract

import (
	"fmt"
	"strings"
)

// Strategy fills the device-particular fields of a Result. Implementations
// must be stateless: Extract takes and returns values, so concurrent notes
// never share an accumulator.
type Strategy interface {
	// Device is the dispatch key this strategy is registered under.
	Device() DeviceType
	// Extract returns a copy of r with this device's fields populated.
	Extract(note string, r Result) Result
}

// Registry maps a device-type key to its extraction strategy. It is built
// once at process start and read-only afterward, so lookups are safe from
// any goroutine without locking. The registry performs no extraction itself.
type Registry struct {
	strategies map[DeviceType]Strategy
}

// NewRegistry builds a registry from the given strategies. Duplicate device
// keys and nil strategies are configuration errors, rejected at construction
// rather than silently overwritten.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	m := make(map[DeviceType]Strategy, len(strategies))
	for i, s := range strategies {
		if s == nil {
			return nil, fmt.Errorf("strategy %d is nil", i)
		}
		key := s.Device()
		if strings.TrimSpace(string(key)) == "" {
			return nil, fmt.Errorf("strategy %d has a blank device key", i)
		}
		if _, exists := m[key]; exists {
			return nil, fmt.Errorf("duplicate strategy for device %q", key)
		}
		m[key] = s
	}
	return &Registry{strategies: m}, nil
}

// DefaultRegistry returns the standard strategy set. Wheelchair orders are
// recognized by the common extractor but carry no device-specific fields, so
// no wheelchair strategy exists.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(CPAPStrategy{}, OxygenTankStrategy{})
	if err != nil {
		// Static strategy set; keys cannot collide.
		panic(err)
	}
	return reg
}

// Lookup returns the strategy for a device key. Blank keys are absent, not
// errors.
func (r *Registry) Lookup(device DeviceType) (Strategy, bool) {
	if strings.TrimSpace(string(device)) == "" {
		return nil, false
	}
	s, ok := r.strategies[device]
	return s, ok
}

// Devices returns the registered device keys, for startup logging.
func (r *Registry) Devices() []DeviceType {
	keys := make([]DeviceType, 0, len(r.strategies))
	for k := range r.strategies {
		keys = append(keys, k)
	}
	return keys
}
