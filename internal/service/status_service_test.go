package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/boardpulse/boardpulse/internal/models"
)

type testStatusService struct {
	repo   *mockStatusRepo
	ledger *ledgerSpy
	svc    TaskStatusService
}

func newTestStatusService() *testStatusService {
	repo := newMockStatusRepo()
	ledger := &ledgerSpy{}
	return &testStatusService{
		repo:   repo,
		ledger: ledger,
		svc:    NewTaskStatusService(repo, ledger, testLogger()),
	}
}

// seedColumns adds n columns with orders 1..n and returns their ids in order.
func (ts *testStatusService) seedColumns(projectID uuid.UUID, names ...string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(names))
	for i, name := range names {
		id := uuid.New()
		ts.repo.statuses = append(ts.repo.statuses, &models.TaskStatus{
			ID:        id,
			Name:      name,
			Order:     i + 1,
			ProjectID: &projectID,
		})
		ids = append(ids, id)
	}
	return ids
}

func TestStatusService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("appends at end of board", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ts.seedColumns(projectID, "Todo", "Doing")

		status, err := ts.svc.Create(ctx, projectID, "Done", nil)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if status.Order != 3 {
			t.Errorf("Order = %d, want 3", status.Order)
		}
		if len(ts.ledger.inputs) != 0 {
			t.Errorf("recorded %d events without an actor, want 0 persisted by ledger", len(ts.ledger.inputs))
		}
	})

	t.Run("records event with actor", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		actorID := uuid.New()

		if _, err := ts.svc.Create(ctx, projectID, "Todo", &actorID); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(ts.ledger.inputs) != 1 {
			t.Fatalf("recorded %d events, want 1", len(ts.ledger.inputs))
		}
		if ts.ledger.inputs[0].Type != models.ActivityTaskStatusCreated {
			t.Errorf("Type = %q, want %q", ts.ledger.inputs[0].Type, models.ActivityTaskStatusCreated)
		}
	})

	t.Run("sequential creates yield dense orders", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()

		for i, name := range []string{"Todo", "Doing", "Done", "Archived"} {
			status, err := ts.svc.Create(ctx, projectID, name, nil)
			if err != nil {
				t.Fatalf("Create(%q) error = %v", name, err)
			}
			if status.Order != i+1 {
				t.Errorf("Order = %d, want %d", status.Order, i+1)
			}
		}
	})
}

func TestStatusService_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("renames existing column", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ids := ts.seedColumns(projectID, "Todo")

		status, err := ts.svc.Rename(ctx, ids[0], "Backlog", nil)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if status.Name != "Backlog" {
			t.Errorf("Name = %q, want %q", status.Name, "Backlog")
		}
	})

	t.Run("missing column returns nil without error", func(t *testing.T) {
		ts := newTestStatusService()

		status, err := ts.svc.Rename(ctx, uuid.New(), "Backlog", nil)
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if status != nil {
			t.Errorf("Rename() = %+v, want nil", status)
		}
	})
}

func TestStatusService_Reorder(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("applies full permutation", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ids := ts.seedColumns(projectID, "A", "B", "C")

		final, err := ts.svc.Reorder(ctx, projectID, []uuid.UUID{ids[2], ids[0], ids[1]}, &actorID)
		if err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}
		want := []uuid.UUID{ids[2], ids[0], ids[1]}
		assertIDOrder(t, final, want)
		assertIDOrder(t, ts.repo.lastOrders, want)
	})

	t.Run("foreign ids are dropped and omissions appended", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ids := ts.seedColumns(projectID, "A", "B", "C")
		foreign := uuid.New()

		final, err := ts.svc.Reorder(ctx, projectID, []uuid.UUID{ids[1], foreign}, &actorID)
		if err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}
		// B explicitly first, then A and C in their existing relative order.
		assertIDOrder(t, final, []uuid.UUID{ids[1], ids[0], ids[2]})
	})

	t.Run("duplicates keep first occurrence", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ids := ts.seedColumns(projectID, "A", "B", "C")

		final, err := ts.svc.Reorder(ctx, projectID, []uuid.UUID{ids[1], ids[1], ids[0]}, &actorID)
		if err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}
		assertIDOrder(t, final, []uuid.UUID{ids[1], ids[0], ids[2]})
	})

	t.Run("reorder is idempotent", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ids := ts.seedColumns(projectID, "A", "B", "C")
		perm := []uuid.UUID{ids[2], ids[1], ids[0]}

		first, err := ts.svc.Reorder(ctx, projectID, perm, &actorID)
		if err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}
		second, err := ts.svc.Reorder(ctx, projectID, perm, &actorID)
		if err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}
		assertIDOrder(t, second, first)
	})

	t.Run("empty board is a no-op", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()

		final, err := ts.svc.Reorder(ctx, projectID, []uuid.UUID{uuid.New()}, &actorID)
		if err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}
		if len(final) != 0 {
			t.Errorf("Reorder() returned %d ids, want 0", len(final))
		}
		if ts.repo.ordersSet != 0 {
			t.Errorf("UpdateOrders called %d times, want 0", ts.repo.ordersSet)
		}
	})

	t.Run("empty input normalizes to current order", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ids := ts.seedColumns(projectID, "A", "B")

		final, err := ts.svc.Reorder(ctx, projectID, nil, &actorID)
		if err != nil {
			t.Fatalf("Reorder() error = %v", err)
		}
		assertIDOrder(t, final, ids)
	})
}

func TestStatusService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes column without compacting orders", func(t *testing.T) {
		ts := newTestStatusService()
		projectID := uuid.New()
		ids := ts.seedColumns(projectID, "A", "B", "C")

		if err := ts.svc.Delete(ctx, ids[1], nil); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		remaining, _ := ts.repo.GetByProject(ctx, projectID)
		if len(remaining) != 2 {
			t.Fatalf("remaining columns = %d, want 2", len(remaining))
		}
		// Orders keep their gap; no rewrite happened.
		if remaining[0].Order != 1 || remaining[1].Order != 3 {
			t.Errorf("orders = %d, %d, want 1, 3", remaining[0].Order, remaining[1].Order)
		}
	})

	t.Run("missing column is a silent no-op", func(t *testing.T) {
		ts := newTestStatusService()

		if err := ts.svc.Delete(ctx, uuid.New(), nil); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if len(ts.ledger.inputs) != 0 {
			t.Errorf("recorded %d events, want 0", len(ts.ledger.inputs))
		}
	})
}

func assertIDOrder(t *testing.T, got, want []uuid.UUID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d ids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, got[i], want[i])
		}
	}
}
