package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startin-app/startin/internal/core/domain"
)

const (
	jobCollection         = "job_details"
	applicationCollection = "job_applications"
)

type MongoJobRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *MongoJobRepository {
	return &MongoJobRepository{db: db, coll: db.Collection(jobCollection)}
}

type mongoJob struct {
	ID           int64  `bson:"_id"`
	Title        string `bson:"title"`
	Type         string `bson:"type"`
	Salary       string `bson:"salary"`
	Description  string `bson:"description"`
	Requirements string `bson:"requirements"`
	EndDate      int64  `bson:"end_date"`
	CompanyID    int64  `bson:"company_id"`
	UniversityID int64  `bson:"university_id"`
	CreatedAt    int64  `bson:"created_at"`
}

func (m mongoJob) toDomain() *domain.Job {
	return &domain.Job{
		ID:           m.ID,
		Title:        m.Title,
		Type:         m.Type,
		Salary:       m.Salary,
		Description:  m.Description,
		Requirements: m.Requirements,
		EndDate:      unixToTime(m.EndDate),
		CompanyID:    m.CompanyID,
		UniversityID: m.UniversityID,
		CreatedAt:    unixToTime(m.CreatedAt),
	}
}

func (r *MongoJobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	id, err := nextID(ctx, r.db, jobCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoJob{
		ID:           id,
		Title:        job.Title,
		Type:         job.Type,
		Salary:       job.Salary,
		Description:  job.Description,
		Requirements: job.Requirements,
		EndDate:      job.EndDate.Unix(),
		CompanyID:    job.CompanyID,
		UniversityID: job.UniversityID,
		CreatedAt:    job.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	created := *job
	created.ID = id
	return &created, nil
}

func (r *MongoJobRepository) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	var mj mongoJob
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mj); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return mj.toDomain(), nil
}

func (r *MongoJobRepository) ListByUniversity(ctx context.Context, universityID int64) ([]*domain.Job, error) {
	return r.list(ctx, bson.M{"university_id": universityID})
}

func (r *MongoJobRepository) ListByCompany(ctx context.Context, companyID int64) ([]*domain.Job, error) {
	return r.list(ctx, bson.M{"company_id": companyID})
}

func (r *MongoJobRepository) list(ctx context.Context, filter bson.M) ([]*domain.Job, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Job
	for cursor.Next(ctx) {
		var mj mongoJob
		if err := cursor.Decode(&mj); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		out = append(out, mj.toDomain())
	}
	return out, cursor.Err()
}

func (r *MongoJobRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *MongoJobRepository) DeleteByUniversity(ctx context.Context, universityID int64) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"university_id": universityID})
	if err != nil {
		return fmt.Errorf("delete jobs: %w", err)
	}
	return nil
}

// MongoApplicationRepository relies on the unique (student_id, job_id) index
// created by EnsureIndexes for duplicate rejection.
type MongoApplicationRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *MongoApplicationRepository {
	return &MongoApplicationRepository{db: db, coll: db.Collection(applicationCollection)}
}

type mongoApplication struct {
	ID           int64  `bson:"_id"`
	JobID        int64  `bson:"job_id"`
	StudentID    int64  `bson:"student_id"`
	CompanyID    int64  `bson:"company_id"`
	UniversityID int64  `bson:"university_id"`
	Status       string `bson:"status"`
	AppliedAt    int64  `bson:"applied_at"`
}

func (m mongoApplication) toDomain() *domain.Application {
	return &domain.Application{
		ID:           m.ID,
		JobID:        m.JobID,
		StudentID:    m.StudentID,
		CompanyID:    m.CompanyID,
		UniversityID: m.UniversityID,
		Status:       domain.ApplicationStatus(m.Status),
		AppliedAt:    unixToTime(m.AppliedAt),
	}
}

func (r *MongoApplicationRepository) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	id, err := nextID(ctx, r.db, applicationCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoApplication{
		ID:           id,
		JobID:        app.JobID,
		StudentID:    app.StudentID,
		CompanyID:    app.CompanyID,
		UniversityID: app.UniversityID,
		Status:       string(app.Status),
		AppliedAt:    app.AppliedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateApplication
		}
		return nil, fmt.Errorf("insert application: %w", err)
	}

	created := *app
	created.ID = id
	return &created, nil
}

func (r *MongoApplicationRepository) FindByID(ctx context.Context, id int64) (*domain.Application, error) {
	var ma mongoApplication
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *MongoApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"job_id": jobID})
}

func (r *MongoApplicationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"student_id": studentID})
}

func (r *MongoApplicationRepository) list(ctx context.Context, filter bson.M) ([]*domain.Application, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Application
	for cursor.Next(ctx) {
		var ma mongoApplication
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		out = append(out, ma.toDomain())
	}
	return out, cursor.Err()
}

func (r *MongoApplicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *MongoApplicationRepository) DeleteByUniversity(ctx context.Context, universityID int64) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"university_id": universityID})
	if err != nil {
		return fmt.Errorf("delete applications: %w", err)
	}
	return nil
}
