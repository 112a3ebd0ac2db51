package extract

import (
	"regexp"
	"strings"
)

// litersRe captures a decimal flow rate immediately followed by an L unit,
// with optional whitespace and either case.
var litersRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[Ll]\b`)

// OxygenTankStrategy extracts oxygen-specific fields: flow rate and usage.
type OxygenTankStrategy struct{}

func (OxygenTankStrategy) Device() DeviceType { return DeviceOxygenTank }

func (OxygenTankStrategy) Extract(note string, r Result) Result {
	if m := litersRe.FindStringSubmatch(note); m != nil {
		// Normalized regardless of input spacing and case: "2L", "2 l",
		// and "2.5L" all become "<number> L".
		r.Liters = m[1] + " L"
	}

	lower := strings.ToLower(note)
	sleep := strings.Contains(lower, "sleep")
	exertion := strings.Contains(lower, "exertion")
	switch {
	case sleep && exertion:
		r.Usage = "sleep and exertion"
	case sleep:
		r.Usage = "sleep"
	case exertion:
		r.Usage = "exertion"
	}

	return r
}
