package user

import "go.mongodb.org/mongo-driver/bson/primitive"

// Roles a user account can hold.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// The creation-date field keeps its historical stored name.
const (
	fieldCreationDate = "Creation Date"
	fieldAuthKey      = "authenticationKey"
)

// dateLayout is the stored day-granularity ISO date.
const dateLayout = "2006-01-02"

// User is an account record. Password always holds the bcrypt hash.
// AuthenticationKey is nil while the user is logged out.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"password"`
	Role              string             `bson:"role" json:"role"`
	FirstName         string             `bson:"firstName" json:"firstName"`
	LastName          string             `bson:"lastName" json:"lastName"`
	CreationDate      string             `bson:"Creation Date,omitempty" json:"creationDate,omitempty"`
	AuthenticationKey *string            `bson:"authenticationKey" json:"authenticationKey"`
	LastLogin         string             `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

// Patch is a partial update to an existing user. Empty fields are skipped,
// with one carve-out: when AuthenticationKeySet is true the key is written
// even when the value is nil. That is how logout clears the session token.
type Patch struct {
	ID                   string
	Email                *string
	Password             *string
	Role                 *string
	FirstName            *string
	LastName             *string
	LastLogin            *string
	AuthenticationKey    *string
	AuthenticationKeySet bool
}
