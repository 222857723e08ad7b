// Package extract parses domain values out of raw resolution payloads
// and checks their invariants. Pure - no I/O, no retries.
package extract

import (
	"regexp"
	"strconv"

	"github.com/devicelab-dev/interact/pkg/core"
)

// humidityPattern matches the canonical "NN - MM" humidity text: exactly
// one separator, optional surrounding whitespace.
var humidityPattern = regexp.MustCompile(`^\s*(\d+)\s*-\s*(\d+)\s*$`)

// HumidityRange is a validated relative-humidity range in percent.
// Invariant: 0 <= Min <= Max <= 100. Never mutated after creation.
type HumidityRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ParseHumidityRange parses and validates a "NN - MM" humidity string.
// Any violation yields a VALIDATION_ERROR carrying the offending raw string.
func ParseHumidityRange(raw string) (HumidityRange, error) {
	fail := func(reason string) error {
		return core.ErrInvalidValue.WithMessage(reason).WithDetails(map[string]interface{}{
			"raw": raw,
		})
	}

	m := humidityPattern.FindStringSubmatch(raw)
	if m == nil {
		return HumidityRange{}, fail("humidity text does not match \"NN - MM\"")
	}

	min, err := strconv.Atoi(m[1])
	if err != nil {
		return HumidityRange{}, fail("minimum is not an integer")
	}
	max, err := strconv.Atoi(m[2])
	if err != nil {
		return HumidityRange{}, fail("maximum is not an integer")
	}

	if min < 0 || min > 100 {
		return HumidityRange{}, fail("minimum outside [0, 100]")
	}
	if max < 0 || max > 100 {
		return HumidityRange{}, fail("maximum outside [0, 100]")
	}
	if min > max {
		return HumidityRange{}, fail("minimum greater than maximum")
	}

	return HumidityRange{Min: min, Max: max}, nil
}

// Humidity extracts a HumidityRange from a success Outcome. A failure
// Outcome propagates its own classified error untouched.
func Humidity(o core.Outcome) (HumidityRange, error) {
	if !o.Success {
		if o.Err != nil {
			return HumidityRange{}, o.Err
		}
		return HumidityRange{}, core.ErrInvalidValue.WithMessage("cannot extract from failure outcome")
	}
	return ParseHumidityRange(o.Raw)
}
