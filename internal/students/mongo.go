package students

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository persists students in a "students" collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repo.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection("students")}
}

// List returns all students, oldest first.
func (r *MongoRepository) List(ctx context.Context) ([]Student, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var res []Student
	if err := cur.All(ctx, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Create inserts a student.
func (r *MongoRepository) Create(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return Student{}, err
	}
	return s, nil
}

// Get returns a student by id.
func (r *MongoRepository) Get(ctx context.Context, id string) (Student, error) {
	var s Student
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Student{}, ErrNotFound
		}
		return Student{}, err
	}
	return s, nil
}

// Update applies p to the student and returns the result.
func (r *MongoRepository) Update(ctx context.Context, id string, p Patch) (Student, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	var s Student
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Student{}, ErrNotFound
		}
		return Student{}, err
	}
	return s, nil
}

// Delete removes a student.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
