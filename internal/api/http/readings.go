package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/weatherdex/weather-station-api/internal/reading"
	"github.com/weatherdex/weather-station-api/internal/user"
)

// readingsPageSize is the fixed page size of the paginated listing.
const readingsPageSize = 5

// createReadingRequest mirrors the reading schema: numeric bounds are
// enforced structurally here, while the temperature and humidity bounds the
// schema leaves open are enforced by the triggers in the data-access layer.
type createReadingRequest struct {
	DeviceName          string   `json:"deviceName" validate:"required"`
	Precipitation       *float64 `json:"precipitationMmPerHour" validate:"required,min=0,max=900"`
	Latitude            *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude           *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	TemperatureC        *float64 `json:"temperatureC" validate:"required"`
	AtmosphericPressure *float64 `json:"atmosphericPressureKPa" validate:"omitempty,min=90,max=105"`
	MaxWindSpeed        *float64 `json:"maxWindSpeedMs" validate:"omitempty,min=0.5,max=400"`
	SolarRadiation      *float64 `json:"solarRadiationWm2" validate:"omitempty,min=100,max=2100"`
	VaporPressure       *float64 `json:"vaporPressureKPa" validate:"omitempty,min=0.1,max=4.6"`
	Humidity            *float64 `json:"humidityPercent" validate:"omitempty,min=1"`
	WindDirection       *float64 `json:"windDirectionDeg" validate:"omitempty,min=0,max=360"`
}

func (r createReadingRequest) toReading() reading.Reading {
	return reading.Reading{
		DeviceName:          r.DeviceName,
		Precipitation:       *r.Precipitation,
		Latitude:            *r.Latitude,
		Longitude:           *r.Longitude,
		TemperatureC:        *r.TemperatureC,
		AtmosphericPressure: r.AtmosphericPressure,
		MaxWindSpeed:        r.MaxWindSpeed,
		SolarRadiation:      r.SolarRadiation,
		VaporPressure:       r.VaporPressure,
		Humidity:            r.Humidity,
		WindDirection:       r.WindDirection,
	}
}

type createManyReadingsRequest struct {
	Readings []createReadingRequest `json:"readings" validate:"required,min=1,dive"`
}

// updateReadingRequest is the partial-update payload. The full-document PUT
// uses updateEntireReadingRequest, which requires every field; both feed the
// same merge-update operation.
type updateReadingRequest struct {
	ID                  string   `json:"id" validate:"required"`
	DeviceName          *string  `json:"deviceName"`
	Precipitation       *float64 `json:"precipitationMmPerHour" validate:"omitempty,min=0,max=900"`
	Latitude            *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude           *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	TemperatureC        *float64 `json:"temperatureC"`
	AtmosphericPressure *float64 `json:"atmosphericPressureKPa" validate:"omitempty,min=90,max=105"`
	MaxWindSpeed        *float64 `json:"maxWindSpeedMs" validate:"omitempty,min=0.5,max=400"`
	SolarRadiation      *float64 `json:"solarRadiationWm2" validate:"omitempty,min=100,max=2100"`
	VaporPressure       *float64 `json:"vaporPressureKPa" validate:"omitempty,min=0.1,max=4.6"`
	Humidity            *float64 `json:"humidityPercent" validate:"omitempty,min=1"`
	WindDirection       *float64 `json:"windDirectionDeg" validate:"omitempty,min=0,max=360"`
}

func (r updateReadingRequest) toPatch() reading.Patch {
	return reading.Patch{
		ID:                  r.ID,
		DeviceName:          r.DeviceName,
		Precipitation:       r.Precipitation,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		TemperatureC:        r.TemperatureC,
		AtmosphericPressure: r.AtmosphericPressure,
		MaxWindSpeed:        r.MaxWindSpeed,
		SolarRadiation:      r.SolarRadiation,
		VaporPressure:       r.VaporPressure,
		Humidity:            r.Humidity,
		WindDirection:       r.WindDirection,
	}
}

type updateEntireReadingRequest struct {
	ID                  string   `json:"id" validate:"required"`
	DeviceName          *string  `json:"deviceName" validate:"required"`
	Precipitation       *float64 `json:"precipitationMmPerHour" validate:"required,min=0,max=900"`
	Latitude            *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude           *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	TemperatureC        *float64 `json:"temperatureC" validate:"required"`
	AtmosphericPressure *float64 `json:"atmosphericPressureKPa" validate:"required,min=90,max=105"`
	MaxWindSpeed        *float64 `json:"maxWindSpeedMs" validate:"required,min=0.5,max=400"`
	SolarRadiation      *float64 `json:"solarRadiationWm2" validate:"required,min=100,max=2100"`
	VaporPressure       *float64 `json:"vaporPressureKPa" validate:"required,min=0.1,max=4.6"`
	Humidity            *float64 `json:"humidityPercent" validate:"required,min=1"`
	WindDirection       *float64 `json:"windDirectionDeg" validate:"required,min=0,max=360"`
}

func (r updateEntireReadingRequest) toPatch() reading.Patch {
	return reading.Patch{
		ID:                  r.ID,
		DeviceName:          r.DeviceName,
		Precipitation:       r.Precipitation,
		Latitude:            r.Latitude,
		Longitude:           r.Longitude,
		TemperatureC:        r.TemperatureC,
		AtmosphericPressure: r.AtmosphericPressure,
		MaxWindSpeed:        r.MaxWindSpeed,
		SolarRadiation:      r.SolarRadiation,
		VaporPressure:       r.VaporPressure,
		Humidity:            r.Humidity,
		WindDirection:       r.WindDirection,
	}
}

type updatePrecipitationRequest struct {
	ID            string   `json:"id" validate:"required"`
	Precipitation *float64 `json:"precipitationMmPerHour" validate:"required,min=0,max=900"`
}

type deleteManyRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

func registerReadingRoutes(app *fiber.App, readings ReadingStore, users UserStore) {
	anyRole := requireRole(users, user.RoleAdmin, user.RoleStudent)
	adminOnly := requireRole(users, user.RoleAdmin)

	app.Post("/readings", anyRole, func(c *fiber.Ctx) error {
		var req createReadingRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		created, err := readings.Create(c.Context(), req.toReading())
		if err != nil {
			return mapError(err, "Failed to create a reading")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Created a reading",
			"reading": created,
		})
	})

	app.Post("/readings/many", anyRole, func(c *fiber.Ctx) error {
		var req createManyReadingsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		recs := make([]reading.Reading, 0, len(req.Readings))
		for _, r := range req.Readings {
			recs = append(recs, r.toReading())
		}

		created, err := readings.CreateMany(c.Context(), recs)
		if err != nil {
			return mapError(err, "Failed to create readings")
		}
		return c.JSON(fiber.Map{
			"status":   fiber.StatusOK,
			"message":  "Created readings",
			"readings": created,
		})
	})

	app.Get("/readings", anyRole, func(c *fiber.Ctx) error {
		results, err := readings.GetAll(c.Context())
		if err != nil {
			return mapError(err, "Failed to get all readings")
		}
		return c.JSON(fiber.Map{
			"status":   fiber.StatusOK,
			"message":  "Got all readings",
			"readings": results,
		})
	})

	// Registered before /readings/:id so "pages" is not captured as an id.
	app.Get("/readings/pages/:page", anyRole, func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Params("page"))
		if err != nil || page < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid page number")
		}

		results, err := readings.GetByPage(c.Context(), page, readingsPageSize)
		if err != nil {
			return mapError(err, "Failed to get paginated readings")
		}
		return c.JSON(fiber.Map{
			"status":   fiber.StatusOK,
			"message":  "Got paginated readings on page " + strconv.Itoa(page),
			"readings": results,
		})
	})

	app.Get("/readings/:id", anyRole, func(c *fiber.Ctx) error {
		result, err := readings.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return mapError(err, "Failed to get reading by ID")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Got reading by ID",
			"reading": result,
		})
	})

	app.Get("/readingsmaximumprecipitation/:deviceName", anyRole, func(c *fiber.Ctx) error {
		result, err := readings.GetMaxPrecipitationLastFiveMonths(c.Context(), c.Params("deviceName"))
		if err != nil {
			return mapError(err, "Failed to get maximum precipitation by device name over the last 5 months")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Got maximum precipitation by device name over the last 5 months",
			"reading": result,
		})
	})

	app.Get("/readingsdevicedate/:deviceName/:date", anyRole, func(c *fiber.Ctx) error {
		deviceName := c.Params("deviceName")
		date := c.Params("date")

		results, err := readings.GetByDeviceNameAndDate(c.Context(), deviceName, date)
		if err != nil {
			return mapError(err, "Failed to get the required reading values by device name and date")
		}

		temperature := make([]float64, 0, len(results))
		atmosphericPressure := make([]*float64, 0, len(results))
		radiation := make([]*float64, 0, len(results))
		precipitation := make([]float64, 0, len(results))
		for _, r := range results {
			temperature = append(temperature, r.TemperatureC)
			atmosphericPressure = append(atmosphericPressure, r.AtmosphericPressure)
			radiation = append(radiation, r.SolarRadiation)
			precipitation = append(precipitation, r.Precipitation)
		}

		return c.JSON(fiber.Map{
			"status":              fiber.StatusOK,
			"message":             "Got the required reading values from the " + deviceName + " on " + date,
			"temperature":         temperature,
			"atmosphericPressure": atmosphericPressure,
			"radiation":           radiation,
			"precipitation":       precipitation,
		})
	})

	app.Get("/readingsmaximumtemperature/:startDate/:endDate", anyRole, func(c *fiber.Ctx) error {
		startDate := c.Params("startDate")
		endDate := c.Params("endDate")

		results, err := readings.GetMaxTempPerDeviceByDateRange(c.Context(), startDate, endDate)
		if err != nil {
			return mapError(err, "Failed to get the maximum temperature reading for each device in the given date range")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Got the maximum temperature reading for each device, between " + startDate + " and " + endDate,
			"result":  results,
		})
	})

	app.Patch("/readings", adminOnly, func(c *fiber.Ctx) error {
		var req updateReadingRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := readings.Update(c.Context(), req.toPatch()); err != nil {
			return mapError(err, "Failed to update reading")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Reading updated",
		})
	})

	app.Patch("/readings/precipitation", adminOnly, func(c *fiber.Ctx) error {
		var req updatePrecipitationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		patch := reading.Patch{ID: req.ID, Precipitation: req.Precipitation}
		if err := readings.Update(c.Context(), patch); err != nil {
			return mapError(err, "Failed to update precipitation value of reading")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Precipitation value of reading updated",
		})
	})

	app.Put("/readings", adminOnly, func(c *fiber.Ctx) error {
		var req updateEntireReadingRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := readings.Update(c.Context(), req.toPatch()); err != nil {
			return mapError(err, "Failed to update entire reading")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Entire reading updated",
		})
	})

	app.Patch("/readings-audit", adminOnly, func(c *fiber.Ctx) error {
		modified, err := readings.RepairFieldNames(c.Context())
		if err != nil {
			return mapError(err, "Failed to remove syntax errors from the relevant documents")
		}
		return c.JSON(fiber.Map{
			"status":       fiber.StatusOK,
			"message":      "All syntax errors removed from the relevant documents",
			"updatedCount": modified,
		})
	})

	app.Delete("/readings/:id", adminOnly, func(c *fiber.Ctx) error {
		count, err := readings.DeleteByID(c.Context(), c.Params("id"))
		if err != nil {
			return mapError(err, "Failed to delete reading by ID")
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No reading found")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Deleted reading by ID",
		})
	})

	app.Delete("/manyreadings", adminOnly, func(c *fiber.Ctx) error {
		var req deleteManyRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		count, err := readings.DeleteMany(c.Context(), req.IDs)
		if err != nil {
			return mapError(err, "Failed to delete multiple readings")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Deleted " + strconv.FormatInt(count, 10) + " readings",
		})
	})
}
