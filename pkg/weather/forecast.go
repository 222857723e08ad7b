package weather

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/devicelab-dev/interact/pkg/core"
)

// forecastDateLayout is the compact date format used by the API.
const forecastDateLayout = "20060102"

// RHValue is a relative-humidity reading with its unit.
type RHValue struct {
	Value *int   `json:"value"`
	Unit  string `json:"unit"`
}

// DayForecast is one entry of the 9-day forecast.
type DayForecast struct {
	ForecastDate  string  `json:"forecastDate"` // YYYYMMDD
	ForecastMinrh RHValue `json:"forecastMinrh"`
	ForecastMaxrh RHValue `json:"forecastMaxrh"`
}

// NineDayForecast is the payload shape of the fnd dataType endpoint.
type NineDayForecast struct {
	WeatherForecast []DayForecast `json:"weatherForecast"`
}

// HumidityForDayOffset extracts the canonical "NN - MM" humidity string
// for the day offset days from now (0 = today). A missing date, missing
// humidity fields, or an offset beyond the forecast horizon is
// MALFORMED_RESPONSE - the offset is never clamped.
func HumidityForDayOffset(body []byte, offset int, now time.Time) (string, error) {
	var data NineDayForecast
	if err := json.Unmarshal(body, &data); err != nil {
		return "", core.ErrMalformedResponse.WithCause(err)
	}

	if offset < 0 {
		return "", core.ErrMalformedResponse.WithMessage("negative day offset").WithDetails(map[string]interface{}{
			"offset": offset,
		})
	}
	if len(data.WeatherForecast) == 0 {
		return "", core.ErrMalformedResponse.WithMessage("no forecast items in response")
	}
	if offset >= len(data.WeatherForecast) {
		return "", core.ErrMalformedResponse.WithMessage("day offset beyond forecast horizon").WithDetails(map[string]interface{}{
			"offset":  offset,
			"horizon": len(data.WeatherForecast),
		})
	}

	targetDate := now.AddDate(0, 0, offset).Format(forecastDateLayout)
	for _, f := range data.WeatherForecast {
		if f.ForecastDate != targetDate {
			continue
		}
		if f.ForecastMinrh.Value == nil || f.ForecastMaxrh.Value == nil {
			return "", core.ErrMalformedResponse.WithMessage("humidity fields missing for date").WithDetails(map[string]interface{}{
				"date": targetDate,
			})
		}
		return fmt.Sprintf("%d - %d", *f.ForecastMinrh.Value, *f.ForecastMaxrh.Value), nil
	}

	return "", core.ErrMalformedResponse.WithMessage("no forecast for date").WithDetails(map[string]interface{}{
		"date": targetDate,
	})
}
