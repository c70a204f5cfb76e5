package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/solveway/eli/pkg/domain/model"
)

type learnerRepository struct {
	mu          sync.RWMutex
	learners    map[string]*model.Learner
	sessions    map[string]*model.TrainingSession
	assignments []*model.SessionAssignment
	attendance  []*model.AttendanceRecord
}

func newLearnerRepository() *learnerRepository {
	return &learnerRepository{
		learners: make(map[string]*model.Learner),
		sessions: make(map[string]*model.TrainingSession),
	}
}

func (r *learnerRepository) GetByULN(ctx context.Context, uln string) (*model.Learner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.learners[uln]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *learnerRepository) SearchByName(ctx context.Context, term string, limit int) ([]*model.Learner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)
	result := make([]*model.Learner, 0)
	for _, l := range r.learners {
		if strings.Contains(strings.ToLower(l.FirstName), needle) ||
			strings.Contains(strings.ToLower(l.LastName), needle) {
			cp := *l
			result = append(result, &cp)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *learnerRepository) SessionsOn(ctx context.Context, t time.Time) ([]*model.TrainingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := t.UTC().Truncate(24 * time.Hour)
	result := make([]*model.TrainingSession, 0)
	for _, s := range r.sessions {
		if s.DateTime.UTC().Truncate(24 * time.Hour).Equal(day) {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *learnerRepository) AssignmentsForSessions(ctx context.Context, sessionIDs []string) ([]*model.SessionAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := toSet(sessionIDs)
	result := make([]*model.SessionAssignment, 0)
	for _, a := range r.assignments {
		if wanted[a.SessionID] {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *learnerRepository) AttendanceForSessions(ctx context.Context, sessionIDs []string) ([]*model.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := toSet(sessionIDs)
	result := make([]*model.AttendanceRecord, 0)
	for _, a := range r.attendance {
		if wanted[a.SessionID] {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *learnerRepository) PutLearner(ctx context.Context, learner *model.Learner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *learner
	r.learners[learner.ULN] = &cp
	return nil
}

func (r *learnerRepository) PutSession(ctx context.Context, session *model.TrainingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *learnerRepository) PutAssignment(ctx context.Context, assignment *model.SessionAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *assignment
	r.assignments = append(r.assignments, &cp)
	return nil
}

func (r *learnerRepository) PutAttendance(ctx context.Context, record *model.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.attendance = append(r.attendance, &cp)
	return nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
