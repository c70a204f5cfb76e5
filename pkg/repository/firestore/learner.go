package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/solveway/eli/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionLearners    = "learners"
	collectionSessions    = "training_sessions"
	collectionAssignments = "session_assignments"
	collectionAttendance  = "attendance_records"
)

// inQueryBatch is Firestore's "in" operator operand limit.
const inQueryBatch = 30

type learnerDoc struct {
	ULN       string `firestore:"ULN"`
	FirstName string `firestore:"FirstName"`
	LastName  string `firestore:"LastName"`
	Employer  string `firestore:"Employer"`
	Route     string `firestore:"Route"`
}

type sessionDoc struct {
	ID       string    `firestore:"ID"`
	Name     string    `firestore:"Name"`
	DateTime time.Time `firestore:"DateTime"`
}

type assignmentDoc struct {
	SessionID  string `firestore:"SessionID"`
	LearnerULN string `firestore:"LearnerULN"`
}

type attendanceDoc struct {
	SessionID  string `firestore:"SessionID"`
	LearnerULN string `firestore:"LearnerULN"`
	Status     string `firestore:"Status"`
}

func fromLearnerDoc(d *learnerDoc) *model.Learner {
	return &model.Learner{
		ULN:       d.ULN,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Employer:  d.Employer,
		Route:     d.Route,
	}
}

type learnerRepository struct {
	client *firestore.Client
}

func newLearnerRepository(client *firestore.Client) *learnerRepository {
	return &learnerRepository{client: client}
}

func (r *learnerRepository) GetByULN(ctx context.Context, uln string) (*model.Learner, error) {
	snap, err := r.client.Collection(collectionLearners).Doc(uln).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get learner", goerr.V("uln", uln))
	}

	var d learnerDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal learner", goerr.V("uln", uln))
	}
	return fromLearnerDoc(&d), nil
}

// SearchByName scans the learner collection and filters in process.
// Firestore has no substring operator; the learner set is small enough
// that a scan is acceptable here.
func (r *learnerRepository) SearchByName(ctx context.Context, term string, limit int) ([]*model.Learner, error) {
	iter := r.client.Collection(collectionLearners).Documents(ctx)
	defer iter.Stop()

	needle := strings.ToLower(term)
	result := make([]*model.Learner, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate learners")
		}

		var d learnerDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal learner", goerr.V("doc", doc.Ref.ID))
		}
		if strings.Contains(strings.ToLower(d.FirstName), needle) ||
			strings.Contains(strings.ToLower(d.LastName), needle) {
			result = append(result, fromLearnerDoc(&d))
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *learnerRepository) SessionsOn(ctx context.Context, t time.Time) ([]*model.TrainingSession, error) {
	dayStart := t.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := r.client.Collection(collectionSessions).
		Where("DateTime", ">=", dayStart).
		Where("DateTime", "<", dayEnd)

	iter := query.Documents(ctx)
	defer iter.Stop()

	sessions := make([]*model.TrainingSession, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sessions")
		}

		var d sessionDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("doc", doc.Ref.ID))
		}
		sessions = append(sessions, &model.TrainingSession{
			ID:       d.ID,
			Name:     d.Name,
			DateTime: d.DateTime,
		})
	}
	return sessions, nil
}

func (r *learnerRepository) AssignmentsForSessions(ctx context.Context, sessionIDs []string) ([]*model.SessionAssignment, error) {
	result := make([]*model.SessionAssignment, 0)
	for _, batch := range batchStrings(sessionIDs, inQueryBatch) {
		iter := r.client.Collection(collectionAssignments).
			Where("SessionID", "in", batch).Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, goerr.Wrap(err, "failed to iterate assignments")
			}

			var d assignmentDoc
			if err := doc.DataTo(&d); err != nil {
				iter.Stop()
				return nil, goerr.Wrap(err, "failed to unmarshal assignment", goerr.V("doc", doc.Ref.ID))
			}
			result = append(result, &model.SessionAssignment{
				SessionID:  d.SessionID,
				LearnerULN: d.LearnerULN,
			})
		}
		iter.Stop()
	}
	return result, nil
}

func (r *learnerRepository) AttendanceForSessions(ctx context.Context, sessionIDs []string) ([]*model.AttendanceRecord, error) {
	result := make([]*model.AttendanceRecord, 0)
	for _, batch := range batchStrings(sessionIDs, inQueryBatch) {
		iter := r.client.Collection(collectionAttendance).
			Where("SessionID", "in", batch).Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, goerr.Wrap(err, "failed to iterate attendance records")
			}

			var d attendanceDoc
			if err := doc.DataTo(&d); err != nil {
				iter.Stop()
				return nil, goerr.Wrap(err, "failed to unmarshal attendance record", goerr.V("doc", doc.Ref.ID))
			}
			result = append(result, &model.AttendanceRecord{
				SessionID:  d.SessionID,
				LearnerULN: d.LearnerULN,
				Status:     d.Status,
			})
		}
		iter.Stop()
	}
	return result, nil
}

func (r *learnerRepository) PutLearner(ctx context.Context, learner *model.Learner) error {
	ref := r.client.Collection(collectionLearners).Doc(learner.ULN)
	if _, err := ref.Set(ctx, &learnerDoc{
		ULN:       learner.ULN,
		FirstName: learner.FirstName,
		LastName:  learner.LastName,
		Employer:  learner.Employer,
		Route:     learner.Route,
	}); err != nil {
		return goerr.Wrap(err, "failed to put learner", goerr.V("uln", learner.ULN))
	}
	return nil
}

func (r *learnerRepository) PutSession(ctx context.Context, session *model.TrainingSession) error {
	ref := r.client.Collection(collectionSessions).Doc(session.ID)
	if _, err := ref.Set(ctx, &sessionDoc{
		ID:       session.ID,
		Name:     session.Name,
		DateTime: session.DateTime,
	}); err != nil {
		return goerr.Wrap(err, "failed to put session", goerr.V("sessionID", session.ID))
	}
	return nil
}

func (r *learnerRepository) PutAssignment(ctx context.Context, assignment *model.SessionAssignment) error {
	ref := r.client.Collection(collectionAssignments).NewDoc()
	if _, err := ref.Set(ctx, &assignmentDoc{
		SessionID:  assignment.SessionID,
		LearnerULN: assignment.LearnerULN,
	}); err != nil {
		return goerr.Wrap(err, "failed to put assignment", goerr.V("sessionID", assignment.SessionID))
	}
	return nil
}

func (r *learnerRepository) PutAttendance(ctx context.Context, record *model.AttendanceRecord) error {
	ref := r.client.Collection(collectionAttendance).NewDoc()
	if _, err := ref.Set(ctx, &attendanceDoc{
		SessionID:  record.SessionID,
		LearnerULN: record.LearnerULN,
		Status:     record.Status,
	}); err != nil {
		return goerr.Wrap(err, "failed to put attendance record", goerr.V("sessionID", record.SessionID))
	}
	return nil
}

func batchStrings(ids []string, size int) [][]string {
	batches := make([][]string, 0, len(ids)/size+1)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
