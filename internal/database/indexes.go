package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureAccountIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("accounts").Indexes()

	usernameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_unique").
			SetUnique(true),
	}

	log.Println("EnsureAccountIndexes: creating username_unique index")
	_, err := indexes.CreateOne(ctx, usernameIndex)
	if err != nil {
		log.Println("EnsureAccountIndexes: username index error:", err)
		return err
	}
	log.Println("EnsureAccountIndexes: username_unique index created")
	return nil
}

func EnsureProfileIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("profiles").Indexes()

	accountIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "accountId", Value: 1}},
		Options: options.Index().
			SetName("accountId_unique").
			SetUnique(true),
	}

	log.Println("EnsureProfileIndexes: creating accountId_unique index")
	_, err := indexes.CreateOne(ctx, accountIndex)
	if err != nil {
		log.Println("EnsureProfileIndexes: accountId index error:", err)
		return err
	}
	log.Println("EnsureProfileIndexes: accountId_unique index created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	customerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "customerId", Value: 1}},
		Options: options.Index().SetName("customerId_index"),
	}

	log.Println("EnsureOrderIndexes: creating customerId_index index")
	_, err := indexes.CreateOne(ctx, customerIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: customerId index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: customerId_index index created")
	return nil
}
