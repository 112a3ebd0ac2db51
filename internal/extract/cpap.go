package extract

import (
	"regexp"
	"strings"
)

// maskTypes is the mask classification chain. "nasal pillow" must be tested
// before the bare "nasal" substring, which it contains.
var maskTypes = []string{"full face", "nasal pillow", "nasal"}

// ahiRe matches an AHI qualifier like "AHI > 20" or "AHI: 32".
var ahiRe = regexp.MustCompile(`(?i)AHI\s*[>:]\s*\d+`)

// CPAPStrategy extracts CPAP-specific fields: mask type, add-ons, and the
// AHI severity qualifier.
type CPAPStrategy struct{}

func (CPAPStrategy) Device() DeviceType { return DeviceCPAP }

func (CPAPStrategy) Extract(note string, r Result) Result {
	lower := strings.ToLower(note)

	for _, mask := range maskTypes {
		if strings.Contains(lower, mask) {
			r.MaskType = mask
			break
		}
	}

	// Single add-on slot: the more specific heated form replaces the
	// generic humidifier mention.
	switch {
	case strings.Contains(lower, "heated humidifier"):
		r.AddOns = []string{"heated humidifier"}
	case strings.Contains(lower, "humidifier"):
		r.AddOns = []string{"humidifier"}
	}

	// The matched span is recorded verbatim ("AHI > 20"), not parsed into
	// a number.
	if m := ahiRe.FindString(note); m != "" {
		r.Qualifier = m
	}

	return r
}
