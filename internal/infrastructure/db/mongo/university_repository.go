package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startin-app/startin/internal/core/domain"
)

const universityCollection = "universities"

type MongoUniversityRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewUniversityRepository(db *mongo.Database) *MongoUniversityRepository {
	return &MongoUniversityRepository{db: db, coll: db.Collection(universityCollection)}
}

type mongoUniversity struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"university_name"`
	PasskeyHash string `bson:"passkey_hash"`
}

func (m mongoUniversity) toDomain() *domain.University {
	return &domain.University{ID: m.ID, Name: m.Name, PasskeyHash: m.PasskeyHash}
}

func (r *MongoUniversityRepository) List(ctx context.Context) ([]*domain.University, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.University
	for cursor.Next(ctx) {
		var mu mongoUniversity
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode university: %w", err)
		}
		out = append(out, mu.toDomain())
	}
	return out, cursor.Err()
}

func (r *MongoUniversityRepository) FindByID(ctx context.Context, id int64) (*domain.University, error) {
	var mu mongoUniversity
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUniversityNotFound
		}
		return nil, fmt.Errorf("find university: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUniversityRepository) FindByName(ctx context.Context, name string) (*domain.University, error) {
	var mu mongoUniversity
	if err := r.coll.FindOne(ctx, bson.M{"university_name": name}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUniversityNotFound
		}
		return nil, fmt.Errorf("find university by name: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUniversityRepository) Create(ctx context.Context, uni *domain.University) (*domain.University, error) {
	id, err := nextID(ctx, r.db, universityCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoUniversity{ID: id, Name: uni.Name, PasskeyHash: uni.PasskeyHash}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert university: %w", err)
	}

	created := *uni
	created.ID = id
	return &created, nil
}

func (r *MongoUniversityRepository) UpdatePasskey(ctx context.Context, id int64, passkeyHash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"passkey_hash": passkeyHash}})
	if err != nil {
		return fmt.Errorf("update passkey: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUniversityNotFound
	}
	return nil
}

func (r *MongoUniversityRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete university: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUniversityNotFound
	}
	return nil
}
