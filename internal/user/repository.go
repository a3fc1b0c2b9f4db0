package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/weatherdex/weather-station-api/internal/apperr"
	"github.com/weatherdex/weather-station-api/internal/storage"
)

// Repository provides data access for the users collection.
type Repository struct {
	col storage.Collection
	log *zap.Logger
	now func() time.Time
}

// NewRepository creates a user repository over the given collection.
func NewRepository(col storage.Collection, logger *zap.Logger) *Repository {
	return &Repository{
		col: col,
		log: logger,
		now: time.Now,
	}
}

// Create inserts a new user after checking that neither the email nor the
// password value is already taken. The password check runs on the value it
// is handed: callers hash before calling, so it compares hash against hash.
// Creation Date is stamped at UTC day granularity.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	var existing User
	err := r.col.FindOne(ctx, bson.M{"email": u.Email}, &existing)
	if err == nil {
		return User{}, apperr.Conflict("email", "Email already exists")
	}
	if !errors.Is(err, storage.ErrNoDocuments) {
		return User{}, fmt.Errorf("check email uniqueness: %w", err)
	}

	err = r.col.FindOne(ctx, bson.M{"password": u.Password}, &existing)
	if err == nil {
		return User{}, apperr.Conflict("password", "Password already exists")
	}
	if !errors.Is(err, storage.ErrNoDocuments) {
		return User{}, fmt.Errorf("check password uniqueness: %w", err)
	}

	u.ID = primitive.NilObjectID
	u.CreationDate = r.now().UTC().Format(dateLayout)

	id, err := r.col.InsertOne(ctx, u)
	if err != nil {
		r.log.Error("insert user failed", zap.Error(err))
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return u, nil
}

// GetAll returns every user.
func (r *Repository) GetAll(ctx context.Context) ([]User, error) {
	var results []User
	if err := r.col.Find(ctx, bson.M{}, storage.FindOptions{}, &results); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("No users available")
	}
	return results, nil
}

// GetByID returns the user with the given id.
func (r *Repository) GetByID(ctx context.Context, id string) (User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return User{}, apperr.Validation("Invalid user ID")
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail returns the user with the given email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByAuthenticationKey returns the user holding the given session key.
func (r *Repository) GetByAuthenticationKey(ctx context.Context, key string) (User, error) {
	return r.findOne(ctx, bson.M{fieldAuthKey: key})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (User, error) {
	var result User
	err := r.col.FindOne(ctx, filter, &result)
	if errors.Is(err, storage.ErrNoDocuments) {
		return User{}, apperr.NotFound("no matching result found")
	}
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return result, nil
}

// GetOldestUsers returns all users ordered earliest-created first.
func (r *Repository) GetOldestUsers(ctx context.Context) ([]User, error) {
	var results []User
	opts := storage.FindOptions{Sort: bson.D{{Key: fieldCreationDate, Value: 1}}}
	if err := r.col.Find(ctx, bson.M{}, opts, &results); err != nil {
		return nil, fmt.Errorf("find oldest users: %w", err)
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("No users available")
	}
	return results, nil
}

// Update applies the patch to the stored user. Empty fields are skipped
// except authenticationKey, which is written whenever the patch marks it
// present, including as null.
func (r *Repository) Update(ctx context.Context, p Patch) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return apperr.Validation("Invalid user ID")
	}

	set := bson.M{}
	setNonEmpty(set, "email", p.Email)
	setNonEmpty(set, "password", p.Password)
	setNonEmpty(set, "role", p.Role)
	setNonEmpty(set, "firstName", p.FirstName)
	setNonEmpty(set, "lastName", p.LastName)
	setNonEmpty(set, "lastLogin", p.LastLogin)
	if p.AuthenticationKeySet {
		if p.AuthenticationKey != nil {
			set[fieldAuthKey] = *p.AuthenticationKey
		} else {
			set[fieldAuthKey] = nil
		}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		r.log.Error("update user failed", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("update user %s: %w", p.ID, err)
	}
	if res.Matched == 0 {
		return apperr.NotFound("No user found")
	}
	return nil
}

// UpdateRolesByDateRange sets the role of every user whose creation date
// falls within [startDate, endDate], dates formatted YYYY-MM-DD.
func (r *Repository) UpdateRolesByDateRange(ctx context.Context, startDate, endDate, role string) (int64, error) {
	filter := bson.M{
		fieldCreationDate: bson.M{"$gte": startDate, "$lte": endDate},
	}
	update := bson.M{"$set": bson.M{"role": role}}

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		r.log.Error("bulk role update failed", zap.Error(err))
		return 0, fmt.Errorf("update roles by date range: %w", err)
	}
	if res.Matched == 0 {
		return 0, apperr.NotFound("No users found to update roles for")
	}
	return res.Modified, nil
}

// DeleteByID deletes one user, reporting the deleted count.
func (r *Repository) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, apperr.Validation("Invalid user ID")
	}
	count, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete user %s: %w", id, err)
	}
	return count, nil
}

// DeleteMany deletes every user whose id appears in ids.
func (r *Repository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, apperr.Validation("Invalid user ID")
		}
		oids = append(oids, oid)
	}
	count, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, fmt.Errorf("delete users: %w", err)
	}
	return count, nil
}

func setNonEmpty(set bson.M, field string, v *string) {
	if v != nil && *v != "" {
		set[field] = *v
	}
}
