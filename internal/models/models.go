package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateFormat is the on-document shape of date_registered and date_created.
const DateFormat = "2006-01-02"

type Account struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	PasswordHash   string             `json:"-" bson:"password_hash"`
	DateRegistered string             `json:"date_registered" bson:"date_registered"`
	IsAdmin        bool               `json:"is_admin" bson:"is_admin"`
}

type Listing struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Model        string             `json:"model" bson:"model"`
	Brand        string             `json:"brand" bson:"brand"`
	CategoryName string             `json:"category_name" bson:"category_name"`
	Description  string             `json:"description" bson:"description"`
	Score        string             `json:"score" bson:"score"`
	ImgURL       string             `json:"img_url" bson:"img_url"`
	DateCreated  string             `json:"date_created" bson:"date_created"`
	IsFeatured   bool               `json:"is_featured" bson:"is_featured"`
	Author       string             `json:"author" bson:"author"`
}

type Category struct {
	ID   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}

type Session struct {
	Token     string    `json:"token" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Today returns the current date in the stored document format.
func Today() string {
	return time.Now().UTC().Format(DateFormat)
}
