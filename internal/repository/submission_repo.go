package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formflow/internal/model"
)

// SubmissionRepo stores finalized answer records
type SubmissionRepo interface {
	Create(ctx context.Context, submission *model.Submission) error
	ListByForm(ctx context.Context, tenantID, formID string) ([]*model.Submission, error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

// EnsureIndexes creates the unique session index that makes submission
// retries safe: a session can be stored at most once.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("submissions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("forms").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenantId", Value: 1}, {Key: "updatedAt", Value: -1}},
	})
	return err
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}

	doc := *submission
	doc.ID = ""
	result, err := r.collection.InsertOne(ctx, &doc)
	if mongo.IsDuplicateKeyError(err) {
		// an earlier attempt for this session already landed
		var existing model.Submission
		if err := r.collection.FindOne(ctx, bson.M{"sessionId": submission.SessionID}).Decode(&existing); err != nil {
			return err
		}
		submission.ID = existing.ID
		return nil
	}
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		submission.ID = oid.Hex()
	}
	return nil
}

func (r *submissionRepo) ListByForm(ctx context.Context, tenantID, formID string) ([]*model.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tenantId": tenantID, "formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := []*model.Submission{}
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}
