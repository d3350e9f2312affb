package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startin-app/startin/internal/core/domain"
)

const (
	studentCollection = "student_auth"
	companyCollection = "company_auth"
	adminCollection   = "admin_auth"
)

// MongoAccountRepository persists accounts in one collection per role,
// mirroring the separate per-role auth tables of the relational layout.
type MongoAccountRepository struct {
	db *mongo.Database
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{db: db}
}

type mongoAccount struct {
	ID           int64  `bson:"_id"`
	Name         string `bson:"name,omitempty"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	UniversityID int64  `bson:"university_id,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
}

func roleCollection(role domain.Role) (string, error) {
	switch role {
	case domain.RoleStudent:
		return studentCollection, nil
	case domain.RoleCompany:
		return companyCollection, nil
	case domain.RoleAdmin:
		return adminCollection, nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	coll, err := roleCollection(account.Role)
	if err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.db, coll)
	if err != nil {
		return nil, err
	}

	doc := mongoAccount{
		ID:           id,
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		UniversityID: account.UniversityID,
		CreatedAt:    account.CreatedAt.Unix(),
	}

	if _, err := r.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	created.ID = id
	return &created, nil
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, role domain.Role, universityID int64, email string) (*domain.Account, error) {
	coll, err := roleCollection(role)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"email": email}
	if role != domain.RoleAdmin {
		filter["university_id"] = universityID
	}

	var ma mongoAccount
	if err := r.db.Collection(coll).FindOne(ctx, filter).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	return &domain.Account{
		ID:           ma.ID,
		Name:         ma.Name,
		Email:        ma.Email,
		PasswordHash: ma.PasswordHash,
		Role:         role,
		UniversityID: ma.UniversityID,
		CreatedAt:    unixToTime(ma.CreatedAt),
	}, nil
}

func (r *MongoAccountRepository) ExistsByEmail(ctx context.Context, role domain.Role, email string) (bool, error) {
	coll, err := roleCollection(role)
	if err != nil {
		return false, err
	}

	n, err := r.db.Collection(coll).CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

func (r *MongoAccountRepository) UpdatePassword(ctx context.Context, role domain.Role, universityID int64, email, passwordHash string) error {
	coll, err := roleCollection(role)
	if err != nil {
		return err
	}

	filter := bson.M{"email": email}
	if role != domain.RoleAdmin {
		filter["university_id"] = universityID
	}

	res, err := r.db.Collection(coll).UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"password_hash": passwordHash}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) DeleteByUniversity(ctx context.Context, universityID int64) error {
	for _, coll := range []string{studentCollection, companyCollection} {
		if _, err := r.db.Collection(coll).DeleteMany(ctx, bson.M{"university_id": universityID}); err != nil {
			return fmt.Errorf("delete accounts in %s: %w", coll, err)
		}
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
