package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository persists credentials in a "credentials" collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repo over the "credentials" collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection("credentials")}
}

// EnsureIndexes creates the unique username index. It is safe to call repeatedly.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a credential.
func (r *MongoRepository) Create(ctx context.Context, cred Credential) (Credential, error) {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	cred.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, cred); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Credential{}, ErrDuplicate
		}
		return Credential{}, err
	}
	return cred, nil
}

// FindByUsername looks up a credential.
func (r *MongoRepository) FindByUsername(ctx context.Context, username string) (Credential, error) {
	var cred Credential
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, err
	}
	return cred, nil
}
