package httpapi

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/weatherdex/weather-station-api/internal/apperr"
	"github.com/weatherdex/weather-station-api/internal/user"
)

func init() {
	// Matches the registration password policy: at least one digit and one
	// uppercase letter. Length is checked separately with min=8.
	_ = validate.RegisterValidation("userpassword", func(fl validator.FieldLevel) bool {
		var hasDigit, hasUpper bool
		for _, r := range fl.Field().String() {
			if unicode.IsDigit(r) {
				hasDigit = true
			}
			if unicode.IsUpper(r) {
				hasUpper = true
			}
		}
		return hasDigit && hasUpper
	})
}

type registerUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,userpassword"`
	FirstName string `json:"firstName" validate:"required,min=2,max=20,alphaunicode"`
	LastName  string `json:"lastName" validate:"required,min=2,max=20,alphaunicode"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type logoutRequest struct {
	AuthenticationKey string `json:"authenticationKey" validate:"required"`
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,userpassword"`
	Role      string `json:"role" validate:"required,oneof=admin student"`
	FirstName string `json:"firstName" validate:"required,min=2,max=20,alphaunicode"`
	LastName  string `json:"lastName" validate:"required,min=2,max=20,alphaunicode"`
}

type updateUserRequest struct {
	ID        string  `json:"id" validate:"required"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin student"`
	FirstName *string `json:"firstName" validate:"omitempty,min=2,max=20,alphaunicode"`
	LastName  *string `json:"lastName" validate:"omitempty,min=2,max=20,alphaunicode"`
}

type updateEntireUserRequest struct {
	ID        string `json:"id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=admin student"`
	FirstName string `json:"firstName" validate:"required,min=2,max=20,alphaunicode"`
	LastName  string `json:"lastName" validate:"required,min=2,max=20,alphaunicode"`
}

type updateRolesByDateRangeRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Role      string `json:"role" validate:"required,oneof=admin student"`
}

// hashIfNeeded hashes the password unless the value already looks like a
// bcrypt hash, so admin flows can pass stored hashes through unchanged.
func hashIfNeeded(password string, cost int) (string, error) {
	if strings.HasPrefix(password, "$2a") {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func todayUTC() string {
	return time.Now().UTC().Format("2006-01-02")
}

func registerUserRoutes(app *fiber.App, users UserStore, opts Options) {
	adminOnly := requireRole(users, user.RoleAdmin)

	app.Post("/users/register", func(c *fiber.Ctx) error {
		var req registerUserRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), opts.BcryptCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
		}

		created, err := users.Create(c.Context(), user.User{
			Email:     req.Email,
			Password:  string(hashed),
			Role:      user.RoleStudent,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return mapError(err, "Registration failed")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Registration successful",
			"user":    created,
		})
	})

	app.Post("/users/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		u, err := users.GetByEmail(c.Context(), req.Email)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials")
		}

		key := uuid.NewString()
		lastLogin := todayUTC()
		err = users.Update(c.Context(), user.Patch{
			ID:                   u.ID.Hex(),
			LastLogin:            &lastLogin,
			AuthenticationKey:    &key,
			AuthenticationKeySet: true,
		})
		if err != nil {
			return mapError(err, "Login failed")
		}
		return c.JSON(fiber.Map{
			"status":            fiber.StatusOK,
			"message":           "User logged in",
			"authenticationKey": key,
		})
	})

	app.Post("/users/logout", func(c *fiber.Ctx) error {
		var req logoutRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		u, err := users.GetByAuthenticationKey(c.Context(), req.AuthenticationKey)
		if err != nil {
			return mapError(err, "Failed to logout user")
		}

		// The key is cleared to null, relying on the update carve-out that
		// writes authenticationKey even when the value is absent.
		err = users.Update(c.Context(), user.Patch{
			ID:                   u.ID.Hex(),
			AuthenticationKeySet: true,
		})
		if err != nil {
			return mapError(err, "Failed to logout user")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "User logged out",
		})
	})

	app.Post("/users", adminOnly, func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		hashed, err := hashIfNeeded(req.Password, opts.BcryptCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create new user")
		}

		created, err := users.Create(c.Context(), user.User{
			Email:     req.Email,
			Password:  hashed,
			Role:      req.Role,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return mapError(err, "Failed to create new user")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Created new user",
			"user":    created,
		})
	})

	app.Get("/users", adminOnly, func(c *fiber.Ctx) error {
		results, err := users.GetAll(c.Context())
		if err != nil {
			return mapError(err, "Failed to get all users")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Got all users",
			"users":   results,
		})
	})

	app.Get("/oldestusers", adminOnly, func(c *fiber.Ctx) error {
		results, err := users.GetOldestUsers(c.Context())
		if err != nil {
			return mapError(err, "Failed to get list of users in order of the earliest created users")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Got list of users in order of the earliest created users",
			"users":   results,
		})
	})

	app.Get("/users/:id", adminOnly, func(c *fiber.Ctx) error {
		result, err := users.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return mapError(err, "Failed to get user by ID")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Got user by ID",
			"user":    result,
		})
	})

	app.Patch("/users", adminOnly, func(c *fiber.Ctx) error {
		var req updateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		patch := user.Patch{
			ID:        req.ID,
			Email:     req.Email,
			Role:      req.Role,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		if req.Password != nil {
			hashed, err := hashIfNeeded(*req.Password, opts.BcryptCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to update user")
			}
			patch.Password = &hashed
		}

		if err := users.Update(c.Context(), patch); err != nil {
			return mapError(err, "Failed to update user")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Updated user",
		})
	})

	app.Put("/users", adminOnly, func(c *fiber.Ctx) error {
		var req updateEntireUserRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		hashed, err := hashIfNeeded(req.Password, opts.BcryptCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update user")
		}

		patch := user.Patch{
			ID:        req.ID,
			Email:     &req.Email,
			Password:  &hashed,
			Role:      &req.Role,
			FirstName: &req.FirstName,
			LastName:  &req.LastName,
		}
		if err := users.Update(c.Context(), patch); err != nil {
			return mapError(err, "Failed to update user")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Updated user",
		})
	})

	app.Put("/updateuserrolesbycreationdate", adminOnly, func(c *fiber.Ctx) error {
		var req updateRolesByDateRangeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		modified, err := users.UpdateRolesByDateRange(c.Context(), req.StartDate, req.EndDate, req.Role)
		if err != nil {
			return mapError(err, "Failed to update the roles of users created in the given range")
		}
		return c.JSON(fiber.Map{
			"status":        fiber.StatusOK,
			"message":       "Updated the roles of users created in the given range",
			"modifiedCount": modified,
		})
	})

	app.Delete("/users/:id", adminOnly, func(c *fiber.Ctx) error {
		count, err := users.DeleteByID(c.Context(), c.Params("id"))
		if err != nil {
			return mapError(err, "Failed to delete user by ID")
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No user found")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Deleted user by ID",
		})
	})

	app.Delete("/manyusers", adminOnly, func(c *fiber.Ctx) error {
		var req deleteManyRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		count, err := users.DeleteMany(c.Context(), req.IDs)
		if err != nil {
			return mapError(err, "Failed to delete multiple users")
		}
		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Deleted " + strconv.FormatInt(count, 10) + " users",
		})
	})
}
