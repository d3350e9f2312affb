package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/startin-app/startin/internal/core/domain"
)

const (
	studentProfileCollection = "student_profiles"
	companyProfileCollection = "company_profiles"
)

// MongoProfileRepository persists onboarding profiles keyed by the owning
// account ID, so an upsert per identity is natural.
type MongoProfileRepository struct {
	students  *mongo.Collection
	companies *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *MongoProfileRepository {
	return &MongoProfileRepository{
		students:  db.Collection(studentProfileCollection),
		companies: db.Collection(companyProfileCollection),
	}
}

type mongoStudentProfile struct {
	StudentID    int64  `bson:"_id"`
	FullName     string `bson:"full_name"`
	About        string `bson:"about,omitempty"`
	Skills       string `bson:"skills,omitempty"`
	Github       string `bson:"github,omitempty"`
	Linkedin     string `bson:"linkedin,omitempty"`
	Resume       string `bson:"resume,omitempty"`
	UniversityID int64  `bson:"university_id"`
}

type mongoCompanyProfile struct {
	CompanyID    int64  `bson:"_id"`
	Name         string `bson:"name"`
	Website      string `bson:"website"`
	Location     string `bson:"location"`
	About        string `bson:"about"`
	UniversityID int64  `bson:"university_id"`
}

func (r *MongoProfileRepository) UpsertStudent(ctx context.Context, p *domain.StudentProfile) error {
	doc := mongoStudentProfile{
		StudentID:    p.StudentID,
		FullName:     p.FullName,
		About:        p.About,
		Skills:       p.Skills,
		Github:       p.Github,
		Linkedin:     p.Linkedin,
		Resume:       p.Resume,
		UniversityID: p.UniversityID,
	}
	_, err := r.students.ReplaceOne(ctx, bson.M{"_id": p.StudentID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert student profile: %w", err)
	}
	return nil
}

func (r *MongoProfileRepository) FindStudent(ctx context.Context, studentID int64) (*domain.StudentProfile, error) {
	var mp mongoStudentProfile
	if err := r.students.FindOne(ctx, bson.M{"_id": studentID}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find student profile: %w", err)
	}
	return &domain.StudentProfile{
		StudentID:    mp.StudentID,
		FullName:     mp.FullName,
		About:        mp.About,
		Skills:       mp.Skills,
		Github:       mp.Github,
		Linkedin:     mp.Linkedin,
		Resume:       mp.Resume,
		UniversityID: mp.UniversityID,
	}, nil
}

func (r *MongoProfileRepository) UpsertCompany(ctx context.Context, p *domain.CompanyProfile) error {
	doc := mongoCompanyProfile{
		CompanyID:    p.CompanyID,
		Name:         p.Name,
		Website:      p.Website,
		Location:     p.Location,
		About:        p.About,
		UniversityID: p.UniversityID,
	}
	_, err := r.companies.ReplaceOne(ctx, bson.M{"_id": p.CompanyID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert company profile: %w", err)
	}
	return nil
}

func (r *MongoProfileRepository) FindCompany(ctx context.Context, companyID int64) (*domain.CompanyProfile, error) {
	var mp mongoCompanyProfile
	if err := r.companies.FindOne(ctx, bson.M{"_id": companyID}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find company profile: %w", err)
	}
	return &domain.CompanyProfile{
		CompanyID:    mp.CompanyID,
		Name:         mp.Name,
		Website:      mp.Website,
		Location:     mp.Location,
		About:        mp.About,
		UniversityID: mp.UniversityID,
	}, nil
}

func (r *MongoProfileRepository) DeleteByUniversity(ctx context.Context, universityID int64) error {
	for _, coll := range []*mongo.Collection{r.students, r.companies} {
		if _, err := coll.DeleteMany(ctx, bson.M{"university_id": universityID}); err != nil {
			return fmt.Errorf("delete profiles: %w", err)
		}
	}
	return nil
}
