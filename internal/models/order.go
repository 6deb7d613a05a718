package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is owned by the account referenced in CustomerID. Staff accounts may
// only see and delete orders whose CustomerID is their own.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Note       string             `bson:"note,omitempty" json:"note,omitempty"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
