// Package httpapi exposes the readings and users collections over HTTP.
// Handlers translate requests into data-access calls and map tagged error
// kinds onto status codes; all domain rules live behind the store interfaces.
package httpapi

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/weatherdex/weather-station-api/internal/apperr"
	"github.com/weatherdex/weather-station-api/internal/reading"
	"github.com/weatherdex/weather-station-api/internal/user"
)

var validate = validator.New()

// ReadingStore is the reading data access the handlers depend on.
type ReadingStore interface {
	Create(ctx context.Context, rec reading.Reading) (reading.Reading, error)
	CreateMany(ctx context.Context, recs []reading.Reading) ([]reading.Reading, error)
	GetAll(ctx context.Context) ([]reading.Reading, error)
	GetByPage(ctx context.Context, page, size int) ([]reading.Reading, error)
	GetByID(ctx context.Context, id string) (reading.Reading, error)
	GetMaxPrecipitationLastFiveMonths(ctx context.Context, deviceName string) (reading.MaxPrecipitation, error)
	GetByDeviceNameAndDate(ctx context.Context, deviceName, date string) ([]reading.Reading, error)
	GetMaxTempPerDeviceByDateRange(ctx context.Context, startDate, endDate string) ([]reading.DeviceMaxTemperature, error)
	Update(ctx context.Context, p reading.Patch) error
	RepairFieldNames(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// UserStore is the user data access the handlers depend on.
type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetAll(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByAuthenticationKey(ctx context.Context, key string) (user.User, error)
	GetOldestUsers(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, p user.Patch) error
	UpdateRolesByDateRange(ctx context.Context, startDate, endDate, role string) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// Options bundles handler configuration.
type Options struct {
	// BcryptCost is used when hashing submitted passwords.
	BcryptCost int
	Logger     *zap.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, readings ReadingStore, users UserStore, opts Options) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	registerReadingRoutes(app, readings, users)
	registerUserRoutes(app, users, opts)
}

// mapError converts a data-access failure into a fiber error. Unclassified
// failures surface the caller-supplied generic message, never internal detail.
func mapError(err error, fallback string) error {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindTrigger:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case apperr.KindNotFound:
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case apperr.KindConflict:
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}
