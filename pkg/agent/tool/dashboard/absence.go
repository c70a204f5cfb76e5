package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/solveway/eli/pkg/agent/tool"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/metrics"
)

// getAbsentLearnersTool lists learners absent on a given or current date.
// A learner counts as absent when they were assigned to a session that day
// and either have no attendance record or one marked absent.
type getAbsentLearnersTool struct {
	repo interfaces.Repository
}

func (t *getAbsentLearnersTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "dashboard__get_absent_learners",
		Description: `List learners who were absent for a specific date or "today".`,
		Parameters: map[string]*gollem.Parameter{
			"date_string": {
				Type:        gollem.TypeString,
				Description: "The date to check (YYYY-MM-DD). Defaults to today if not specified.",
				Required:    false,
			},
		},
	}
}

func (t *getAbsentLearnersTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	targetDate := time.Now().UTC()
	if ds, _ := args["date_string"].(string); ds != "" {
		parsed, err := time.Parse("2006-01-02", ds)
		if err != nil {
			return nil, fmt.Errorf("date_string must be YYYY-MM-DD: %q", ds)
		}
		targetDate = parsed
	}

	tool.Update(ctx, fmt.Sprintf("Checking absences for %s...", targetDate.Format("2006-01-02")))

	sessions, err := t.repo.Learner().SessionsOn(ctx, targetDate)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues("get_absent_learners", "error").Inc()
		return nil, goerr.Wrap(err, "failed to find sessions",
			goerr.V("date", targetDate.Format("2006-01-02")),
		)
	}
	if len(sessions) == 0 {
		metrics.ToolCallsTotal.WithLabelValues("get_absent_learners", "success").Inc()
		return map[string]any{"message": "No training sessions found for this date."}, nil
	}

	sessionIDs := make([]string, len(sessions))
	sessionByID := make(map[string]*model.TrainingSession, len(sessions))
	for i, s := range sessions {
		sessionIDs[i] = s.ID
		sessionByID[s.ID] = s
	}

	assignments, err := t.repo.Learner().AssignmentsForSessions(ctx, sessionIDs)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues("get_absent_learners", "error").Inc()
		return nil, goerr.Wrap(err, "failed to fetch assignments")
	}
	if len(assignments) == 0 {
		metrics.ToolCallsTotal.WithLabelValues("get_absent_learners", "success").Inc()
		return map[string]any{"message": "Sessions found, but no learners were assigned to them."}, nil
	}

	attendance, err := t.repo.Learner().AttendanceForSessions(ctx, sessionIDs)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues("get_absent_learners", "error").Inc()
		return nil, goerr.Wrap(err, "failed to fetch attendance records")
	}

	type attKey struct{ sessionID, uln string }
	records := make(map[attKey]*model.AttendanceRecord, len(attendance))
	for _, a := range attendance {
		records[attKey{a.SessionID, a.LearnerULN}] = a
	}

	// Absent = assigned and (no record, or an absent-status record)
	details := make([]map[string]any, 0)
	for _, assign := range assignments {
		rec, ok := records[attKey{assign.SessionID, assign.LearnerULN}]
		if ok && rec.Status != model.AttendanceAbsent && rec.Status != model.AttendanceLateAbsent {
			continue
		}

		name := "Unknown"
		employer := "Unknown"
		if learner, err := t.repo.Learner().GetByULN(ctx, assign.LearnerULN); err == nil && learner != nil {
			name = learner.FullName()
			employer = learner.Employer
		}

		sessionName := ""
		if s, ok := sessionByID[assign.SessionID]; ok {
			sessionName = s.Name
		}

		details = append(details, map[string]any{
			"name":     name,
			"employer": employer,
			"session":  sessionName,
			"status":   "Absent",
		})
	}

	metrics.ToolCallsTotal.WithLabelValues("get_absent_learners", "success").Inc()
	return map[string]any{
		"date":           targetDate.Format("2006-01-02"),
		"total_sessions": len(sessions),
		"total_assigned": len(assignments),
		"total_absent":   len(details),
		"details":        details,
	}, nil
}
