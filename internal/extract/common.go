package extract

import (
	"regexp"
	"strings"
)

// deviceKeywords is the device classification chain, tried in order. A note
// mentioning several devices gets the first match, so CPAP outranks oxygen
// outranks wheelchair.
var deviceKeywords = []struct {
	keyword string
	device  DeviceType
}{
	{"cpap", DeviceCPAP},
	{"oxygen", DeviceOxygenTank},
	{"wheelchair", DeviceWheelchair},
}

// Provider name sanity bounds, exclusive on both ends.
const (
	providerMinLen = 3
	providerMaxLen = 100
)

// providerLabel matches the label prefixes that introduce an ordering
// provider. Label matching is case-insensitive; the name itself is not.
const providerLabel = `(?:(?i:ordering\s+physician|ordered\s+by|physician))\s*[:\-]?\s*`

// providerPatterns is the ordering-provider pattern chain, most specific
// first. The first candidate that passes length validation wins; failed
// candidates fall through to the next match and then the next pattern.
var providerPatterns = []*regexp.Regexp{
	// (a) Labelled "Dr. First M. Last, MD": optional single-letter middle
	// initial, optional credential suffix.
	regexp.MustCompile(providerLabel + `(Dr\.\s*[A-Z][a-zA-Z'-]+(?:\s+[A-Z]\.)?(?:\s+[A-Z][a-zA-Z'-]+)?(?:,?\s*(?:MD|DO|DDS|DMD|PhD))?)`),
	// (b) Labelled full "Dr. First Last".
	regexp.MustCompile(providerLabel + `(Dr\.\s*[A-Z][a-z]+\s+[A-Z][a-z]+)`),
	// (c) Labelled capitalized name without "Dr.", optional credential.
	regexp.MustCompile(providerLabel + `([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+(?:,?\s*(?:MD|DO|DDS|DMD|PhD))?)`),
	// (d) Bare "Dr. Name" anywhere, no label required.
	regexp.MustCompile(`(Dr\.\s*[A-Z][a-zA-Z'-]+(?:\s+[A-Z][a-zA-Z'-]+)?)`),
	// (e) Bare "First Last, MD" anywhere.
	regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+,\s*(?:MD|DO|DDS|DMD|PhD))`),
}

var (
	patientNameRe = regexp.MustCompile(`(?i)patient\s+name\s*:\s*([A-Za-z][A-Za-z ]*)`)
	dobRe         = regexp.MustCompile(`(?i)dob\s*:\s*(\d{2}/\d{2}/\d{4})`)
	diagnosisRe   = regexp.MustCompile(`(?i)diagnosis\s*:\s*([A-Za-z][A-Za-z ]*)`)
)

// ExtractCommon derives the device type and patient/provider metadata shared
// by every order, independent of device. Pure function over the note text;
// the four field extractions are independent of each other.
func ExtractCommon(note string) Result {
	r := DefaultResult()
	r.Device = classifyDevice(note)
	r.OrderingProvider = extractProvider(note)

	if m := patientNameRe.FindStringSubmatch(note); m != nil {
		r.PatientName = strings.TrimSpace(m[1])
	}
	if m := dobRe.FindStringSubmatch(note); m != nil {
		// Captured digits as written; no calendar validation.
		r.DateOfBirth = m[1]
	}
	if m := diagnosisRe.FindStringSubmatch(note); m != nil {
		r.Diagnosis = strings.TrimSpace(m[1])
	}
	return r
}

func classifyDevice(note string) DeviceType {
	lower := strings.ToLower(note)
	for _, k := range deviceKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.device
		}
	}
	return DeviceUnknown
}

func extractProvider(note string) string {
	for _, re := range providerPatterns {
		for _, m := range re.FindAllStringSubmatch(note, -1) {
			candidate := strings.TrimSpace(m[1])
			if validProviderName(candidate) {
				return candidate
			}
		}
	}
	return "Unknown"
}

func validProviderName(name string) bool {
	return len(name) > providerMinLen && len(name) < providerMaxLen
}
