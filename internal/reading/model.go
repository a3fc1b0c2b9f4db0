package reading

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stored documents keep the historical field names written by earlier
// ingest tooling, spaces and units included. The JSON surface uses the
// camelCase names.
const (
	fieldDeviceName          = "Device Name"
	fieldPrecipitation       = "Precipitation mm/h"
	fieldLatitude            = "Latitude"
	fieldLongitude           = "Longitude"
	fieldTemperature         = "Temperature (°C)"
	fieldAtmosphericPressure = "Atmospheric Pressure (kPa)"
	fieldMaxWindSpeed        = "Max Wind Speed (m/s)"
	fieldSolarRadiation      = "Solar Radiation (W/m2)"
	fieldVaporPressure       = "Vapor Pressure (kPa)"
	fieldHumidity            = "Humidity (%)"
	fieldWindDirection       = "Wind Direction (°)"
	fieldTime                = "Time"

	// Malformed variants produced by a historical ingest bug, repaired by
	// Repository.RepairFieldNames.
	fieldSolarRadiationBroken = "Solar Radiation (W/m2/)"
	fieldMaxWindSpeedBroken   = "Max Wind Speed (m/s/)"
)

// timeLayout matches the stored ISO-8601 representation (millisecond
// precision, trailing Z). Values formatted this way compare correctly as
// plain strings, which the range queries rely on.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func isoTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Reading is one timestamped sensor observation.
type Reading struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DeviceName          string             `bson:"Device Name" json:"deviceName"`
	Precipitation       float64            `bson:"Precipitation mm/h" json:"precipitationMmPerHour"`
	Latitude            float64            `bson:"Latitude" json:"latitude"`
	Longitude           float64            `bson:"Longitude" json:"longitude"`
	TemperatureC        float64            `bson:"Temperature (°C)" json:"temperatureC"`
	AtmosphericPressure *float64           `bson:"Atmospheric Pressure (kPa),omitempty" json:"atmosphericPressureKPa,omitempty"`
	MaxWindSpeed        *float64           `bson:"Max Wind Speed (m/s),omitempty" json:"maxWindSpeedMs,omitempty"`
	SolarRadiation      *float64           `bson:"Solar Radiation (W/m2),omitempty" json:"solarRadiationWm2,omitempty"`
	VaporPressure       *float64           `bson:"Vapor Pressure (kPa),omitempty" json:"vaporPressureKPa,omitempty"`
	Humidity            *float64           `bson:"Humidity (%),omitempty" json:"humidityPercent,omitempty"`
	WindDirection       *float64           `bson:"Wind Direction (°),omitempty" json:"windDirectionDeg,omitempty"`
	Time                string             `bson:"Time" json:"time"`
}

// Patch is a partial update to an existing reading. Nil fields are left
// untouched; the full-document PUT simply supplies every field.
type Patch struct {
	ID                  string   `json:"id"`
	DeviceName          *string  `json:"deviceName"`
	Precipitation       *float64 `json:"precipitationMmPerHour"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	TemperatureC        *float64 `json:"temperatureC"`
	AtmosphericPressure *float64 `json:"atmosphericPressureKPa"`
	MaxWindSpeed        *float64 `json:"maxWindSpeedMs"`
	SolarRadiation      *float64 `json:"solarRadiationWm2"`
	VaporPressure       *float64 `json:"vaporPressureKPa"`
	Humidity            *float64 `json:"humidityPercent"`
	WindDirection       *float64 `json:"windDirectionDeg"`
	Time                *string  `json:"time"`
}

// MaxPrecipitation is the projected result of the maximum-precipitation query.
type MaxPrecipitation struct {
	DeviceName    string  `bson:"Device Name" json:"deviceName"`
	Precipitation float64 `bson:"Precipitation mm/h" json:"precipitationMmPerHour"`
	Time          string  `bson:"Time" json:"time"`
}

// DeviceMaxTemperature is one group of the maximum-temperature aggregation:
// the hottest observation per device within a date range.
type DeviceMaxTemperature struct {
	DeviceName   string  `bson:"_id" json:"deviceName"`
	TemperatureC float64 `bson:"Temperature" json:"temperatureC"`
	Time         string  `bson:"Time" json:"time"`
}
