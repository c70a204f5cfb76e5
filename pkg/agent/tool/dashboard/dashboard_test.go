package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/solveway/eli/pkg/agent/tool"
	"github.com/solveway/eli/pkg/agent/tool/dashboard"
	"github.com/solveway/eli/pkg/domain/interfaces"
	"github.com/solveway/eli/pkg/domain/model"
	"github.com/solveway/eli/pkg/repository/memory"
)

func findTool(t *testing.T, tools []gollem.Tool, name string) gollem.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Spec().Name == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func seedLearners(t *testing.T, repo interfaces.Repository) {
	t.Helper()
	ctx := context.Background()

	learners := []*model.Learner{
		{ULN: "1000000001", FirstName: "Amelia", LastName: "Clark", Employer: "Acme Ltd", Route: "ICT"},
		{ULN: "1000000002", FirstName: "Ben", LastName: "Shaw", Employer: "Borough Council", Route: "Accounting"},
		{ULN: "1000000003", FirstName: "Chloe", LastName: "Dunn", Employer: "Acme Ltd", Route: "ICT"},
	}
	for _, l := range learners {
		gt.NoError(t, repo.Learner().PutLearner(ctx, l)).Required()
	}
}

func TestGetLearnerDetails(t *testing.T) {
	repo := memory.New()
	seedLearners(t, repo)
	tl := findTool(t, dashboard.New(repo), "dashboard__get_learner_details")
	ctx := context.Background()

	t.Run("exact ULN match wins", func(t *testing.T) {
		out, err := tl.Run(ctx, map[string]any{"search_term": "1000000002"})
		gt.NoError(t, err).Required()

		gt.Value(t, out["count"]).Equal(1)
		items := out["learners"].([]map[string]any)
		gt.Value(t, items[0]["name"]).Equal("Ben Shaw")
		gt.Value(t, items[0]["employer"]).Equal("Borough Council")
	})

	t.Run("falls back to name search", func(t *testing.T) {
		out, err := tl.Run(ctx, map[string]any{"search_term": "amelia"})
		gt.NoError(t, err).Required()

		gt.Value(t, out["count"]).Equal(1)
		items := out["learners"].([]map[string]any)
		gt.Value(t, items[0]["uln"]).Equal("1000000001")
		gt.Value(t, items[0]["route"]).Equal("ICT")
	})

	t.Run("no match returns empty result", func(t *testing.T) {
		out, err := tl.Run(ctx, map[string]any{"search_term": "nobody"})
		gt.NoError(t, err).Required()
		gt.Value(t, out["count"]).Equal(0)
	})

	t.Run("missing search term fails", func(t *testing.T) {
		_, err := tl.Run(ctx, map[string]any{})
		gt.Error(t, err)
	})
}

func TestGetAbsentLearners(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) interfaces.Repository {
		t.Helper()
		repo := memory.New()
		seedLearners(t, repo)

		gt.NoError(t, repo.Learner().PutSession(ctx, &model.TrainingSession{
			ID: "s1", Name: "Networking Workshop", DateTime: day,
		})).Required()
		gt.NoError(t, repo.Learner().PutSession(ctx, &model.TrainingSession{
			ID: "s2", Name: "AAT Revision", DateTime: day.Add(3 * time.Hour),
		})).Required()
		// A session on another day must not be counted.
		gt.NoError(t, repo.Learner().PutSession(ctx, &model.TrainingSession{
			ID: "s3", Name: "Next Week", DateTime: day.AddDate(0, 0, 7),
		})).Required()

		for _, a := range []*model.SessionAssignment{
			{SessionID: "s1", LearnerULN: "1000000001"},
			{SessionID: "s1", LearnerULN: "1000000003"},
			{SessionID: "s2", LearnerULN: "1000000002"},
			{SessionID: "s3", LearnerULN: "1000000001"},
		} {
			gt.NoError(t, repo.Learner().PutAssignment(ctx, a)).Required()
		}
		return repo
	}

	t.Run("no record and absent statuses count as absent", func(t *testing.T) {
		repo := setup(t)
		// Amelia attended, Chloe marked Late_Absent, Ben has no record.
		gt.NoError(t, repo.Learner().PutAttendance(ctx, &model.AttendanceRecord{
			SessionID: "s1", LearnerULN: "1000000001", Status: model.AttendanceAttended,
		})).Required()
		gt.NoError(t, repo.Learner().PutAttendance(ctx, &model.AttendanceRecord{
			SessionID: "s1", LearnerULN: "1000000003", Status: model.AttendanceLateAbsent,
		})).Required()

		tl := findTool(t, dashboard.New(repo), "dashboard__get_absent_learners")
		out, err := tl.Run(ctx, map[string]any{"date_string": "2026-03-09"})
		gt.NoError(t, err).Required()

		gt.Value(t, out["date"]).Equal("2026-03-09")
		gt.Value(t, out["total_sessions"]).Equal(2)
		gt.Value(t, out["total_assigned"]).Equal(3)
		gt.Value(t, out["total_absent"]).Equal(2)

		details := out["details"].([]map[string]any)
		absentees := map[string]string{}
		for _, d := range details {
			absentees[d["name"].(string)] = d["session"].(string)
		}
		gt.Value(t, absentees["Chloe Dunn"]).Equal("Networking Workshop")
		gt.Value(t, absentees["Ben Shaw"]).Equal("AAT Revision")
	})

	t.Run("everyone attended reports zero absences", func(t *testing.T) {
		repo := setup(t)
		for _, rec := range []*model.AttendanceRecord{
			{SessionID: "s1", LearnerULN: "1000000001", Status: model.AttendanceAttended},
			{SessionID: "s1", LearnerULN: "1000000003", Status: model.AttendanceAttended},
			{SessionID: "s2", LearnerULN: "1000000002", Status: model.AttendanceAttended},
		} {
			gt.NoError(t, repo.Learner().PutAttendance(ctx, rec)).Required()
		}

		tl := findTool(t, dashboard.New(repo), "dashboard__get_absent_learners")
		out, err := tl.Run(ctx, map[string]any{"date_string": "2026-03-09"})
		gt.NoError(t, err).Required()
		gt.Value(t, out["total_absent"]).Equal(0)
	})

	t.Run("no sessions on the date", func(t *testing.T) {
		repo := setup(t)
		tl := findTool(t, dashboard.New(repo), "dashboard__get_absent_learners")
		out, err := tl.Run(ctx, map[string]any{"date_string": "2026-03-10"})
		gt.NoError(t, err).Required()
		gt.Value(t, out["message"]).Equal("No training sessions found for this date.")
	})

	t.Run("bad date string fails", func(t *testing.T) {
		repo := setup(t)
		tl := findTool(t, dashboard.New(repo), "dashboard__get_absent_learners")
		_, err := tl.Run(ctx, map[string]any{"date_string": "09/03/2026"})
		gt.Error(t, err)
	})
}

func TestToolProgressUpdates(t *testing.T) {
	repo := memory.New()
	seedLearners(t, repo)

	var messages []string
	ctx := tool.WithUpdate(context.Background(), func(_ context.Context, msg string) {
		messages = append(messages, msg)
	})

	tl := findTool(t, dashboard.New(repo), "dashboard__get_learner_details")
	_, err := tl.Run(ctx, map[string]any{"search_term": "amelia"})
	gt.NoError(t, err).Required()
	gt.Array(t, messages).Length(1)
	gt.Value(t, messages[0]).Equal(`Looking up learner "amelia"...`)
}
