package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CannotPredict is the wire sentinel the forecasting service emits for days
// it has no model data for.
const CannotPredict = "Cannot predict"

// ForecastPoint is one predicted sales value for one future date. A nil
// PredValue means the service could not predict that day and the chart
// should render a gap.
type ForecastPoint struct {
	Date      string
	PredValue *float64
}

type forecastPointWire struct {
	Date      string          `json:"date"`
	PredValue json.RawMessage `json:"pred_value"`
}

// UnmarshalJSON accepts pred_value as a number, a numeric string or the
// "Cannot predict" sentinel. The sentinel and null map to a nil PredValue.
func (p *ForecastPoint) UnmarshalJSON(data []byte) error {
	var wire forecastPointWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.Date = wire.Date
	p.PredValue = nil

	if len(wire.PredValue) == 0 || string(wire.PredValue) == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(wire.PredValue, &str); err == nil {
		if str == CannotPredict {
			return nil
		}
		value, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("forecast point: bad pred_value %q", str)
		}
		p.PredValue = &value
		return nil
	}

	var value float64
	if err := json.Unmarshal(wire.PredValue, &value); err != nil {
		return fmt.Errorf("forecast point: bad pred_value %s", wire.PredValue)
	}
	p.PredValue = &value
	return nil
}

// MarshalJSON restores the wire sentinel for unpredictable points.
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	if p.PredValue == nil {
		return json.Marshal(struct {
			Date      string `json:"date"`
			PredValue string `json:"pred_value"`
		}{p.Date, CannotPredict})
	}
	return json.Marshal(struct {
		Date      string  `json:"date"`
		PredValue float64 `json:"pred_value"`
	}{p.Date, *p.PredValue})
}
