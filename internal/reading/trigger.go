package reading

// Trigger messages surfaced to callers when a write is blocked. The wording
// varies between the single-record and batch/update paths, matching the
// messages clients already match on.
const (
	msgTemperatureBlocked = "Trigger stopped request - Temperature (°C) value must be between -50 °C and 60 °C"
	msgHumidityBlocked    = "Trigger stopped request - Humidity (%) value must not be higher than 100 %"

	msgTemperatureBlockedMany = "Trigger stopped request - Temperature (°C) value in all readings must be between -50 °C and 60 °C"
	msgHumidityBlockedMany    = "Trigger stopped request - Humidity (%) value in all readings must not be higher than 100 %"
)

// temperatureTrigger blocks documents with a temperature above 60 or below
// -50. An absent value passes: partial updates that do not touch the field
// are not its concern.
func temperatureTrigger(temperatureC *float64) bool {
	if temperatureC == nil {
		return true
	}
	if *temperatureC > 60 {
		return false
	}
	if *temperatureC < -50 {
		return false
	}
	return true
}

// humidityTrigger blocks documents with a humidity over 100%.
func humidityTrigger(humidityPercent *float64) bool {
	if humidityPercent == nil {
		return true
	}
	return *humidityPercent <= 100
}
