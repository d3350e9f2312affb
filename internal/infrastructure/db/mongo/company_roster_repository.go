package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startin-app/startin/internal/core/domain"
)

const rosterCollection = "company_roster"

type MongoCompanyRosterRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCompanyRosterRepository(db *mongo.Database) *MongoCompanyRosterRepository {
	return &MongoCompanyRosterRepository{db: db, coll: db.Collection(rosterCollection)}
}

type mongoRosterEntry struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Email       string `bson:"email"`
	PasskeyHash string `bson:"passkey_hash"`
	CreatedAt   int64  `bson:"created_at"`
}

func (m mongoRosterEntry) toDomain() *domain.RosterEntry {
	return &domain.RosterEntry{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		PasskeyHash: m.PasskeyHash,
		CreatedAt:   unixToTime(m.CreatedAt),
	}
}

func (r *MongoCompanyRosterRepository) List(ctx context.Context) ([]*domain.RosterEntry, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.RosterEntry
	for cursor.Next(ctx) {
		var me mongoRosterEntry
		if err := cursor.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode roster entry: %w", err)
		}
		out = append(out, me.toDomain())
	}
	return out, cursor.Err()
}

func (r *MongoCompanyRosterRepository) FindByEmail(ctx context.Context, email string) (*domain.RosterEntry, error) {
	var me mongoRosterEntry
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&me); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRosterEntryNotFound
		}
		return nil, fmt.Errorf("find roster entry: %w", err)
	}
	return me.toDomain(), nil
}

func (r *MongoCompanyRosterRepository) Create(ctx context.Context, entry *domain.RosterEntry) (*domain.RosterEntry, error) {
	id, err := nextID(ctx, r.db, rosterCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoRosterEntry{
		ID:          id,
		Name:        entry.Name,
		Email:       entry.Email,
		PasskeyHash: entry.PasskeyHash,
		CreatedAt:   entry.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRosterEntryExists
		}
		return nil, fmt.Errorf("insert roster entry: %w", err)
	}

	created := *entry
	created.ID = id
	return &created, nil
}

func (r *MongoCompanyRosterRepository) Update(ctx context.Context, id int64, name, passkeyHash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "passkey_hash": passkeyHash}})
	if err != nil {
		return fmt.Errorf("update roster entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRosterEntryNotFound
	}
	return nil
}

func (r *MongoCompanyRosterRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRosterEntryNotFound
	}
	return nil
}
