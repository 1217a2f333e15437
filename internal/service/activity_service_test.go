package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
	"github.com/boardpulse/boardpulse/internal/pkg/ulid"
)

func newTestActivityService(repo *mockActivityRepo) (*activityService, time.Time) {
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := NewActivityService(repo, testLogger()).(*activityService)
	svc.now = func() time.Time { return fixed }
	return svc, fixed
}

func TestActivityService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("persists event with ULID id and serialized metadata", func(t *testing.T) {
		repo := newMockActivityRepo()
		svc, fixed := newTestActivityService(repo)

		projectID := uuid.New()
		taskID := uuid.New()
		userID := uuid.New()

		err := svc.Record(ctx, RecordActivityInput{
			ProjectID: &projectID,
			TaskID:    &taskID,
			UserID:    &userID,
			Type:      models.ActivityTaskCreated,
			Metadata:  map[string]any{"name": "Ship it"},
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if len(repo.activities) != 1 {
			t.Fatalf("persisted %d rows, want 1", len(repo.activities))
		}

		row := repo.activities[0]
		if !ulid.IsValid(row.ID) {
			t.Errorf("ID = %q, not a valid ULID", row.ID)
		}
		if !row.CreatedAt.Equal(fixed) {
			t.Errorf("CreatedAt = %v, want %v", row.CreatedAt, fixed)
		}
		if row.Metadata == nil {
			t.Fatal("Metadata = nil, want serialized JSON")
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(*row.Metadata), &decoded); err != nil {
			t.Fatalf("Metadata is not valid JSON: %v", err)
		}
		if decoded["name"] != "Ship it" {
			t.Errorf("Metadata name = %v, want %q", decoded["name"], "Ship it")
		}
	})

	t.Run("drops event missing project", func(t *testing.T) {
		repo := newMockActivityRepo()
		svc, _ := newTestActivityService(repo)
		userID := uuid.New()

		err := svc.Record(ctx, RecordActivityInput{
			UserID: &userID,
			Type:   models.ActivityTaskCreated,
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if len(repo.activities) != 0 {
			t.Errorf("persisted %d rows, want 0", len(repo.activities))
		}
	})

	t.Run("drops event missing user", func(t *testing.T) {
		repo := newMockActivityRepo()
		svc, _ := newTestActivityService(repo)
		projectID := uuid.New()

		err := svc.Record(ctx, RecordActivityInput{
			ProjectID: &projectID,
			Type:      models.ActivityTaskCreated,
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if len(repo.activities) != 0 {
			t.Errorf("persisted %d rows, want 0", len(repo.activities))
		}
	})

	t.Run("nil metadata stays nil", func(t *testing.T) {
		repo := newMockActivityRepo()
		svc, _ := newTestActivityService(repo)
		projectID := uuid.New()
		userID := uuid.New()

		err := svc.Record(ctx, RecordActivityInput{
			ProjectID: &projectID,
			UserID:    &userID,
			Type:      models.ActivityTaskDeleted,
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if repo.activities[0].Metadata != nil {
			t.Errorf("Metadata = %q, want nil", *repo.activities[0].Metadata)
		}
	})
}

func TestActivityService_LimitDefaults(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		call func(svc ActivityService) error
		want int
	}{
		{
			name: "project activity defaults to 50",
			call: func(svc ActivityService) error {
				_, err := svc.GetByProject(ctx, uuid.New(), 0)
				return err
			},
			want: defaultActivityLimit,
		},
		{
			name: "task activity defaults to 50",
			call: func(svc ActivityService) error {
				_, err := svc.GetByTask(ctx, uuid.New(), -3)
				return err
			},
			want: defaultActivityLimit,
		},
		{
			name: "recent-for-user defaults to 10",
			call: func(svc ActivityService) error {
				_, err := svc.GetRecentForUser(ctx, uuid.New(), 0)
				return err
			},
			want: defaultRecentLimit,
		},
		{
			name: "feed defaults to 20",
			call: func(svc ActivityService) error {
				_, err := svc.GetRealTimeFeed(ctx, 0)
				return err
			},
			want: defaultFeedLimit,
		},
		{
			name: "explicit limit passes through",
			call: func(svc ActivityService) error {
				_, err := svc.GetRealTimeFeed(ctx, 7)
				return err
			},
			want: 7,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockActivityRepo()
			svc, _ := newTestActivityService(repo)

			if err := tc.call(svc); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if repo.lastLimit != tc.want {
				t.Errorf("limit = %d, want %d", repo.lastLimit, tc.want)
			}
		})
	}
}

func TestActivityService_GetDailyActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("nil project yields empty series", func(t *testing.T) {
		repo := newMockActivityRepo()
		svc, _ := newTestActivityService(repo)

		counts, err := svc.GetDailyActivity(ctx, nil)
		if err != nil {
			t.Fatalf("GetDailyActivity() error = %v", err)
		}
		if counts == nil {
			t.Fatal("GetDailyActivity() = nil, want empty slice")
		}
		if len(counts) != 0 {
			t.Errorf("len = %d, want 0", len(counts))
		}
	})

	t.Run("project activity is bucketed by day", func(t *testing.T) {
		repo := newMockActivityRepo()
		svc, _ := newTestActivityService(repo)
		projectID := uuid.New()
		userID := uuid.New()

		for i := 0; i < 3; i++ {
			if err := svc.Record(ctx, RecordActivityInput{
				ProjectID: &projectID,
				UserID:    &userID,
				Type:      models.ActivityTaskUpdated,
			}); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
		}

		counts, err := svc.GetDailyActivity(ctx, &projectID)
		if err != nil {
			t.Fatalf("GetDailyActivity() error = %v", err)
		}
		if len(counts) != 1 {
			t.Fatalf("buckets = %d, want 1", len(counts))
		}
		if counts[0].Count != 3 {
			t.Errorf("Count = %d, want 3", counts[0].Count)
		}
	})
}
