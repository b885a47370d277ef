package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an admin account. Password holds the bcrypt hash and is never
// serialized to clients.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Password string             `json:"-" bson:"password"`
	Role     string             `json:"role" bson:"role"` // e.g. admin, user
}

type UserCreate struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// Fields returns the supplied fields for a $set. The password must already
// be hashed by the caller.
func (u *UserUpdate) Fields() bson.M {
	set := bson.M{}
	putString(set, "username", u.Username)
	putString(set, "password", u.Password)
	putString(set, "role", u.Role)
	return set
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Response projects the user without its password.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Role:     u.Role,
	}
}
