package interfaces

import (
	"context"
	"time"

	"github.com/solveway/eli/pkg/domain/model"
)

// LearnerRepository backs the dashboard data-lookup tools. All queries run
// under the data-access scope of the authenticated principal.
type LearnerRepository interface {
	// GetByULN returns the learner with the exact ULN, or nil if absent.
	GetByULN(ctx context.Context, uln string) (*model.Learner, error)

	// SearchByName returns up to limit learners whose first or last name
	// contains the term (case-insensitive).
	SearchByName(ctx context.Context, term string, limit int) ([]*model.Learner, error)

	// SessionsOn returns the training sessions scheduled on the given day
	// (UTC calendar day of t).
	SessionsOn(ctx context.Context, t time.Time) ([]*model.TrainingSession, error)

	// AssignmentsForSessions returns who is expected at the given sessions.
	AssignmentsForSessions(ctx context.Context, sessionIDs []string) ([]*model.SessionAssignment, error)

	// AttendanceForSessions returns the recorded sign-in outcomes for the
	// given sessions.
	AttendanceForSessions(ctx context.Context, sessionIDs []string) ([]*model.AttendanceRecord, error)

	// PutLearner, PutSession, PutAssignment and PutAttendance are write
	// paths for the ingestion collaborator and tests.
	PutLearner(ctx context.Context, learner *model.Learner) error
	PutSession(ctx context.Context, session *model.TrainingSession) error
	PutAssignment(ctx context.Context, assignment *model.SessionAssignment) error
	PutAttendance(ctx context.Context, record *model.AttendanceRecord) error
}
