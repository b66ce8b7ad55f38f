package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User — account record. PasswordHash is bcrypt and is blanked before
// serializing profile responses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username"      json:"username"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"passwordHash"  json:"-"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`
}
