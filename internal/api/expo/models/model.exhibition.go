package expomodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exhibition is a trade show that person records point at by name
type Exhibition struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" index:"unique"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	City        string             `json:"city" bson:"city" default:"Mumbai" index:"single:1"`
	Date        string             `json:"date,omitempty" bson:"date,omitempty"` // Free text, D/M/YYYY when defaulted
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// ExhibitionWithCount is the list view of an exhibition
type ExhibitionWithCount struct {
	Exhibition    `bson:",inline"`
	CustomerCount int64 `json:"customerCount" bson:"customerCount"`
}

// DefaultExhibitions are inserted at boot when missing
var DefaultExhibitions = []Exhibition{
	{Name: "Tech Expo Mumbai", City: "Mumbai", Location: "Mumbai"},
	{Name: "Protech Ahmedabad", City: "Ahmedabad", Location: "Ahmedabad"},
	{Name: "Build Expo Delhi", City: "Delhi", Location: "Delhi"},
	{Name: "Exhibition Bangalore", City: "Bangalore", Location: "Bangalore"},
}
