package department

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuiltIn is the department list every installation starts with
var BuiltIn = []string{
	"Sales",
	"Engineering",
	"Marketing",
	"HR",
	"Finance",
}

type Department struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}
