package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/weatherdex/weather-station-api/internal/apperr"
	"github.com/weatherdex/weather-station-api/internal/reading"
	"github.com/weatherdex/weather-station-api/internal/user"
)

// stubReadingStore implements ReadingStore with per-method overrides.
type stubReadingStore struct {
	CreateFn            func(ctx context.Context, rec reading.Reading) (reading.Reading, error)
	CreateManyFn        func(ctx context.Context, recs []reading.Reading) ([]reading.Reading, error)
	GetAllFn            func(ctx context.Context) ([]reading.Reading, error)
	GetByPageFn         func(ctx context.Context, page, size int) ([]reading.Reading, error)
	GetByIDFn           func(ctx context.Context, id string) (reading.Reading, error)
	GetMaxPrecipFn      func(ctx context.Context, deviceName string) (reading.MaxPrecipitation, error)
	GetByDeviceDateFn   func(ctx context.Context, deviceName, date string) ([]reading.Reading, error)
	GetMaxTempFn        func(ctx context.Context, startDate, endDate string) ([]reading.DeviceMaxTemperature, error)
	UpdateFn            func(ctx context.Context, p reading.Patch) error
	RepairFieldNamesFn  func(ctx context.Context) (int64, error)
	DeleteByIDFn        func(ctx context.Context, id string) (int64, error)
	DeleteManyFn        func(ctx context.Context, ids []string) (int64, error)
}

func (s *stubReadingStore) Create(ctx context.Context, rec reading.Reading) (reading.Reading, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, rec)
	}
	return rec, nil
}

func (s *stubReadingStore) CreateMany(ctx context.Context, recs []reading.Reading) ([]reading.Reading, error) {
	if s.CreateManyFn != nil {
		return s.CreateManyFn(ctx, recs)
	}
	return recs, nil
}

func (s *stubReadingStore) GetAll(ctx context.Context) ([]reading.Reading, error) {
	if s.GetAllFn != nil {
		return s.GetAllFn(ctx)
	}
	return []reading.Reading{}, nil
}

func (s *stubReadingStore) GetByPage(ctx context.Context, page, size int) ([]reading.Reading, error) {
	if s.GetByPageFn != nil {
		return s.GetByPageFn(ctx, page, size)
	}
	return []reading.Reading{}, nil
}

func (s *stubReadingStore) GetByID(ctx context.Context, id string) (reading.Reading, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return reading.Reading{}, nil
}

func (s *stubReadingStore) GetMaxPrecipitationLastFiveMonths(ctx context.Context, deviceName string) (reading.MaxPrecipitation, error) {
	if s.GetMaxPrecipFn != nil {
		return s.GetMaxPrecipFn(ctx, deviceName)
	}
	return reading.MaxPrecipitation{}, nil
}

func (s *stubReadingStore) GetByDeviceNameAndDate(ctx context.Context, deviceName, date string) ([]reading.Reading, error) {
	if s.GetByDeviceDateFn != nil {
		return s.GetByDeviceDateFn(ctx, deviceName, date)
	}
	return []reading.Reading{}, nil
}

func (s *stubReadingStore) GetMaxTempPerDeviceByDateRange(ctx context.Context, startDate, endDate string) ([]reading.DeviceMaxTemperature, error) {
	if s.GetMaxTempFn != nil {
		return s.GetMaxTempFn(ctx, startDate, endDate)
	}
	return []reading.DeviceMaxTemperature{}, nil
}

func (s *stubReadingStore) Update(ctx context.Context, p reading.Patch) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, p)
	}
	return nil
}

func (s *stubReadingStore) RepairFieldNames(ctx context.Context) (int64, error) {
	if s.RepairFieldNamesFn != nil {
		return s.RepairFieldNamesFn(ctx)
	}
	return 0, nil
}

func (s *stubReadingStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	if s.DeleteByIDFn != nil {
		return s.DeleteByIDFn(ctx, id)
	}
	return 1, nil
}

func (s *stubReadingStore) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if s.DeleteManyFn != nil {
		return s.DeleteManyFn(ctx, ids)
	}
	return int64(len(ids)), nil
}

// stubUserStore implements UserStore with per-method overrides.
type stubUserStore struct {
	CreateFn            func(ctx context.Context, u user.User) (user.User, error)
	GetAllFn            func(ctx context.Context) ([]user.User, error)
	GetByIDFn           func(ctx context.Context, id string) (user.User, error)
	GetByEmailFn        func(ctx context.Context, email string) (user.User, error)
	GetByAuthKeyFn      func(ctx context.Context, key string) (user.User, error)
	GetOldestUsersFn    func(ctx context.Context) ([]user.User, error)
	UpdateFn            func(ctx context.Context, p user.Patch) error
	UpdateRolesFn       func(ctx context.Context, startDate, endDate, role string) (int64, error)
	DeleteByIDFn        func(ctx context.Context, id string) (int64, error)
	DeleteManyFn        func(ctx context.Context, ids []string) (int64, error)
}

func (s *stubUserStore) Create(ctx context.Context, u user.User) (user.User, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, u)
	}
	return u, nil
}

func (s *stubUserStore) GetAll(ctx context.Context) ([]user.User, error) {
	if s.GetAllFn != nil {
		return s.GetAllFn(ctx)
	}
	return []user.User{}, nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id string) (user.User, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return user.User{}, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if s.GetByEmailFn != nil {
		return s.GetByEmailFn(ctx, email)
	}
	return user.User{}, apperr.NotFound("no matching result found")
}

func (s *stubUserStore) GetByAuthenticationKey(ctx context.Context, key string) (user.User, error) {
	if s.GetByAuthKeyFn != nil {
		return s.GetByAuthKeyFn(ctx, key)
	}
	return user.User{}, apperr.NotFound("no matching result found")
}

func (s *stubUserStore) GetOldestUsers(ctx context.Context) ([]user.User, error) {
	if s.GetOldestUsersFn != nil {
		return s.GetOldestUsersFn(ctx)
	}
	return []user.User{}, nil
}

func (s *stubUserStore) Update(ctx context.Context, p user.Patch) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, p)
	}
	return nil
}

func (s *stubUserStore) UpdateRolesByDateRange(ctx context.Context, startDate, endDate, role string) (int64, error) {
	if s.UpdateRolesFn != nil {
		return s.UpdateRolesFn(ctx, startDate, endDate, role)
	}
	return 0, nil
}

func (s *stubUserStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	if s.DeleteByIDFn != nil {
		return s.DeleteByIDFn(ctx, id)
	}
	return 1, nil
}

func (s *stubUserStore) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if s.DeleteManyFn != nil {
		return s.DeleteManyFn(ctx, ids)
	}
	return int64(len(ids)), nil
}

// authAs resolves every authentication key to a user with the given role.
func (s *stubUserStore) authAs(role string) {
	s.GetByAuthKeyFn = func(_ context.Context, _ string) (user.User, error) {
		return user.User{ID: primitive.NewObjectID(), Email: "auth@example.com", Role: role}, nil
	}
}

func newTestApp(readings ReadingStore, users UserStore) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  code,
				"message": err.Error(),
			})
		},
	})
	RegisterRoutes(app, readings, users, Options{BcryptCost: bcrypt.MinCost})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, authKey string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authKey != "" {
		req.Header.Set(authKeyHeader, authKey)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	return resp.StatusCode, payload
}

func validCreateReadingBody() map[string]any {
	return map[string]any{
		"deviceName":             "Mitchell Sensor 1",
		"precipitationMmPerHour": 115.0,
		"latitude":               -27.47,
		"longitude":              153.01,
		"temperatureC":           32.0,
		"humidityPercent":        58.0,
	}
}

func TestMissingAuthenticationKey(t *testing.T) {
	app := newTestApp(&stubReadingStore{}, &stubUserStore{})

	status, payload := doRequest(t, app, http.MethodGet, "/readings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication key required", payload["message"])
}

func TestUnknownAuthenticationKey(t *testing.T) {
	app := newTestApp(&stubReadingStore{}, &stubUserStore{})

	status, payload := doRequest(t, app, http.MethodGet, "/readings", "no-such-key", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid authentication key", payload["message"])
}

func TestStudentCannotDelete(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodDelete, "/readings/"+primitive.NewObjectID().Hex(), "key", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Insufficient role for this operation", payload["message"])
}

func TestStudentCanRead(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	readings := &stubReadingStore{
		GetAllFn: func(_ context.Context) ([]reading.Reading, error) {
			return []reading.Reading{{DeviceName: "Device X"}}, nil
		},
	}
	app := newTestApp(readings, users)

	status, payload := doRequest(t, app, http.MethodGet, "/readings", "key", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Got all readings", payload["message"])
}

func TestCreateReadingRejectsMissingFields(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)

	called := false
	readings := &stubReadingStore{
		CreateFn: func(_ context.Context, rec reading.Reading) (reading.Reading, error) {
			called = true
			return rec, nil
		},
	}
	app := newTestApp(readings, users)

	body := validCreateReadingBody()
	delete(body, "temperatureC")

	status, _ := doRequest(t, app, http.MethodPost, "/readings", "key", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, called, "invalid payload must not reach the store")
}

func TestCreateReadingRejectsOutOfRangePrecipitation(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	app := newTestApp(&stubReadingStore{}, users)

	body := validCreateReadingBody()
	body["precipitationMmPerHour"] = 901.0

	status, _ := doRequest(t, app, http.MethodPost, "/readings", "key", body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateReadingTriggerMapsToBadRequest(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	readings := &stubReadingStore{
		CreateFn: func(_ context.Context, _ reading.Reading) (reading.Reading, error) {
			return reading.Reading{}, apperr.Trigger("Trigger stopped request - Temperature (°C) value must be between -50 °C and 60 °C")
		},
	}
	app := newTestApp(readings, users)

	status, payload := doRequest(t, app, http.MethodPost, "/readings", "key", validCreateReadingBody())
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, payload["message"], "Trigger stopped request")
}

func TestGetReadingByIDNotFound(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	readings := &stubReadingStore{
		GetByIDFn: func(_ context.Context, _ string) (reading.Reading, error) {
			return reading.Reading{}, apperr.NotFound("no matching result found")
		},
	}
	app := newTestApp(readings, users)

	status, payload := doRequest(t, app, http.MethodGet, "/readings/"+primitive.NewObjectID().Hex(), "key", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no matching result found", payload["message"])
}

func TestUnclassifiedErrorHidesDetail(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	readings := &stubReadingStore{
		GetAllFn: func(_ context.Context) ([]reading.Reading, error) {
			return nil, io.ErrUnexpectedEOF
		},
	}
	app := newTestApp(readings, users)

	status, payload := doRequest(t, app, http.MethodGet, "/readings", "key", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to get all readings", payload["message"])
}

func TestInvalidPageNumber(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodGet, "/readings/pages/abc", "key", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid page number", payload["message"])
}

func TestPaginatedReadingsUsesFixedPageSize(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)

	var gotPage, gotSize int
	readings := &stubReadingStore{
		GetByPageFn: func(_ context.Context, page, size int) ([]reading.Reading, error) {
			gotPage, gotSize = page, size
			return []reading.Reading{{DeviceName: "Device X"}}, nil
		},
	}
	app := newTestApp(readings, users)

	status, _ := doRequest(t, app, http.MethodGet, "/readings/pages/3", "key", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, gotPage)
	assert.Equal(t, 5, gotSize)
}

func TestDeleteReadingZeroCount(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleAdmin)
	readings := &stubReadingStore{
		DeleteByIDFn: func(_ context.Context, _ string) (int64, error) {
			return 0, nil
		},
	}
	app := newTestApp(readings, users)

	status, payload := doRequest(t, app, http.MethodDelete, "/readings/"+primitive.NewObjectID().Hex(), "key", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No reading found", payload["message"])
}

func TestRepairFieldNamesReportsCount(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleAdmin)
	readings := &stubReadingStore{
		RepairFieldNamesFn: func(_ context.Context) (int64, error) {
			return 7, nil
		},
	}
	app := newTestApp(readings, users)

	status, payload := doRequest(t, app, http.MethodPatch, "/readings-audit", "key", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(7), payload["updatedCount"])
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	users := &stubUserStore{}
	created := false
	users.CreateFn = func(_ context.Context, u user.User) (user.User, error) {
		created = true
		return u, nil
	}
	app := newTestApp(&stubReadingStore{}, users)

	// No uppercase letter and no digit.
	status, _ := doRequest(t, app, http.MethodPost, "/users/register", "", map[string]any{
		"email":     "new@example.com",
		"password":  "alllowercase",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, created)
}

func TestRegisterHashesPasswordAndDefaultsToStudent(t *testing.T) {
	users := &stubUserStore{}
	var stored user.User
	users.CreateFn = func(_ context.Context, u user.User) (user.User, error) {
		stored = u
		return u, nil
	}
	app := newTestApp(&stubReadingStore{}, users)

	status, _ := doRequest(t, app, http.MethodPost, "/users/register", "", map[string]any{
		"email":     "new@example.com",
		"password":  "Password1",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.RoleStudent, stored.Role)
	assert.NotEqual(t, "Password1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Password1")))
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	users := &stubUserStore{}
	users.CreateFn = func(_ context.Context, _ user.User) (user.User, error) {
		return user.User{}, apperr.Conflict("email", "Email already exists")
	}
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodPost, "/users/register", "", map[string]any{
		"email":     "taken@example.com",
		"password":  "Password1",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already exists", payload["message"])
}

func TestLoginIssuesAuthenticationKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)

	uid := primitive.NewObjectID()
	users := &stubUserStore{
		GetByEmailFn: func(_ context.Context, _ string) (user.User, error) {
			return user.User{ID: uid, Email: "ada@example.com", Password: string(hash), Role: user.RoleStudent}, nil
		},
	}
	var patch user.Patch
	users.UpdateFn = func(_ context.Context, p user.Patch) error {
		patch = p
		return nil
	}
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodPost, "/users/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "Password1",
	})
	require.Equal(t, http.StatusOK, status)

	key, ok := payload["authenticationKey"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, key)

	assert.Equal(t, uid.Hex(), patch.ID)
	assert.True(t, patch.AuthenticationKeySet)
	require.NotNil(t, patch.AuthenticationKey)
	assert.Equal(t, key, *patch.AuthenticationKey)
	require.NotNil(t, patch.LastLogin)
	assert.NotEmpty(t, *patch.LastLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &stubUserStore{
		GetByEmailFn: func(_ context.Context, _ string) (user.User, error) {
			return user.User{ID: primitive.NewObjectID(), Password: string(hash)}, nil
		},
	}
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodPost, "/users/login", "", map[string]any{
		"email":    "ada@example.com",
		"password": "WrongPassword1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", payload["message"])
}

func TestLoginUnknownEmail(t *testing.T) {
	app := newTestApp(&stubReadingStore{}, &stubUserStore{})

	status, payload := doRequest(t, app, http.MethodPost, "/users/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "Password1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", payload["message"])
}

func TestLogoutClearsAuthenticationKey(t *testing.T) {
	uid := primitive.NewObjectID()
	users := &stubUserStore{}
	users.GetByAuthKeyFn = func(_ context.Context, _ string) (user.User, error) {
		return user.User{ID: uid, Role: user.RoleStudent}, nil
	}
	var patch user.Patch
	users.UpdateFn = func(_ context.Context, p user.Patch) error {
		patch = p
		return nil
	}
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodPost, "/users/logout", "", map[string]any{
		"authenticationKey": "session-key",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User logged out", payload["message"])

	assert.Equal(t, uid.Hex(), patch.ID)
	assert.True(t, patch.AuthenticationKeySet)
	assert.Nil(t, patch.AuthenticationKey)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleStudent)
	app := newTestApp(&stubReadingStore{}, users)

	status, _ := doRequest(t, app, http.MethodPost, "/users", "key", map[string]any{
		"email":     "new@example.com",
		"password":  "Password1",
		"role":      "student",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCreateUserPassesStoredHashThrough(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleAdmin)
	var stored user.User
	users.CreateFn = func(_ context.Context, u user.User) (user.User, error) {
		stored = u
		return u, nil
	}
	app := newTestApp(&stubReadingStore{}, users)

	// Already a bcrypt hash, must not be re-hashed.
	hash := "$2a$10$N9qo8uLOickgx2ZMRZoMye"
	status, _ := doRequest(t, app, http.MethodPost, "/users", "key", map[string]any{
		"email":     "new@example.com",
		"password":  hash,
		"role":      "admin",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, hash, stored.Password)
	assert.Equal(t, user.RoleAdmin, stored.Role)
}

func TestUpdateUserRolesByDateRange(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleAdmin)
	var gotStart, gotEnd, gotRole string
	users.UpdateRolesFn = func(_ context.Context, startDate, endDate, role string) (int64, error) {
		gotStart, gotEnd, gotRole = startDate, endDate, role
		return 2, nil
	}
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodPut, "/updateuserrolesbycreationdate", "key", map[string]any{
		"startDate": "2024-01-01",
		"endDate":   "2024-02-01",
		"role":      "admin",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), payload["modifiedCount"])
	assert.Equal(t, "2024-01-01", gotStart)
	assert.Equal(t, "2024-02-01", gotEnd)
	assert.Equal(t, "admin", gotRole)
}

func TestUpdateUserRolesRejectsBadDate(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleAdmin)
	app := newTestApp(&stubReadingStore{}, users)

	status, _ := doRequest(t, app, http.MethodPut, "/updateuserrolesbycreationdate", "key", map[string]any{
		"startDate": "01/01/2024",
		"endDate":   "2024-02-01",
		"role":      "admin",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteManyReadingsRequiresIDs(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleAdmin)
	app := newTestApp(&stubReadingStore{}, users)

	status, _ := doRequest(t, app, http.MethodDelete, "/manyreadings", "key", map[string]any{
		"ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDeleteManyUsersReportsCount(t *testing.T) {
	users := &stubUserStore{}
	users.authAs(user.RoleAdmin)
	users.DeleteManyFn = func(_ context.Context, ids []string) (int64, error) {
		return int64(len(ids)), nil
	}
	app := newTestApp(&stubReadingStore{}, users)

	status, payload := doRequest(t, app, http.MethodDelete, "/manyusers", "key", map[string]any{
		"ids": []string{primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Deleted 2 users", payload["message"])
}
