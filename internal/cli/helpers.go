package cli

import (
	"fmt"
	"strconv"

	"github.com/pktikkani/forecastio/internal/api"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func locationInput(name, city, timezone string, customerID int64) api.LocationInput {
	return api.LocationInput{
		Name:       name,
		City:       city,
		Timezone:   timezone,
		CustomerID: customerID,
	}
}
