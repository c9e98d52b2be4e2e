package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/freeeve/cerke-arbiter/internal/model"
	"github.com/freeeve/cerke-arbiter/internal/repository"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.GameRepository = (*GameRepo)(nil)
	_ repository.TurnRepository = (*TurnRepo)(nil)
	_ repository.GameCache      = (*Cache)(nil)
)

func TestUserUpsert(t *testing.T) {
	repo := NewUserRepo()
	ctx := context.Background()

	u1, _ := repo.Upsert(ctx, "dev", "dev-alice", "Alice", "")
	u2, _ := repo.Upsert(ctx, "dev", "dev-alice", "Alice B", "pic")
	if u1.ID != u2.ID || u2.DisplayName != "Alice B" {
		t.Fatalf("upsert should update in place: %+v %+v", u1, u2)
	}
	if err := repo.UpdateDisplayName(ctx, u1.ID, "Al"); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.FindByProviderID(ctx, "dev", "dev-alice")
	if got.DisplayName != "Al" {
		t.Errorf("expected Al, got %s", got.DisplayName)
	}
	if missing, _ := repo.FindByID(ctx, "nope"); missing != nil {
		t.Error("expected nil for a missing user")
	}
}

func TestGameLifecycle(t *testing.T) {
	repo := NewGameRepo()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	g, _ := repo.Create(ctx, "g", "u1", "strict", "map")
	repo.JoinGame(ctx, g.ID, "u1")
	repo.JoinGame(ctx, g.ID, "u1")
	repo.JoinGame(ctx, g.ID, "u2")
	if n, _ := repo.PlayerCount(ctx, g.ID); n != 2 {
		t.Fatalf("expected joins to be idempotent, got %d players", n)
	}
	if open, _ := repo.ListOpen(ctx); len(open) != 1 {
		t.Fatalf("expected one open game, got %d", len(open))
	}

	repo.AssignSides(ctx, g.ID, map[string]string{"u1": "a", "u2": "ia"})
	got, _ := repo.FindByID(ctx, g.ID)
	if got.Status != "active" || got.PlayerOn("ia") != "u2" {
		t.Fatalf("unexpected game after AssignSides: %+v", got)
	}

	past := now.Add(-time.Second)
	repo.SaveSession(ctx, g.ID, json.RawMessage(`{"stage":"excited"}`), &past)
	if ids, _ := repo.ListExpired(ctx); len(ids) != 1 || ids[0] != g.ID {
		t.Errorf("expected the game to be expired, got %v", ids)
	}
	if raw, _ := repo.LoadSession(ctx, g.ID); string(raw) != `{"stage":"excited"}` {
		t.Errorf("unexpected session %s", raw)
	}

	repo.SetFinished(ctx, g.ID, "a")
	if ids, _ := repo.ListExpired(ctx); len(ids) != 0 {
		t.Errorf("finished games never expire, got %v", ids)
	}
	if mine, _ := repo.ListByUser(ctx, "u2"); len(mine) != 1 || mine[0].Winner != "a" {
		t.Errorf("unexpected ListByUser result %+v", mine)
	}
	repo.Delete(ctx, g.ID)
	if gone, _ := repo.FindByID(ctx, g.ID); gone != nil {
		t.Error("expected game to be deleted")
	}
}

func TestTurnAppendRejectsDuplicateSeq(t *testing.T) {
	repo := NewTurnRepo(NewGameRepo())
	ctx := context.Background()

	if err := repo.Append(ctx, &model.Turn{GameID: "g", Seq: 1, Kind: "start"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Append(ctx, &model.Turn{GameID: "g", Seq: 1, Kind: "move"}); err == nil {
		t.Error("expected duplicate seq to fail")
	}
	turns, _ := repo.ListByGame(ctx, "g")
	if len(turns) != 1 || turns[0].ID == "" {
		t.Errorf("unexpected turns %+v", turns)
	}
}

func TestTurnRecordKeepsLogAndSessionTogether(t *testing.T) {
	games := NewGameRepo()
	repo := NewTurnRepo(games)
	ctx := context.Background()
	g, _ := games.Create(ctx, "g", "u1", "strict", "dense")

	if err := repo.Record(ctx, &model.Turn{GameID: g.ID, Seq: 1, Kind: "start"}, json.RawMessage(`{"seq":1}`), nil); err != nil {
		t.Fatal(err)
	}
	// A duplicate seq leaves the stored session alone.
	if err := repo.Record(ctx, &model.Turn{GameID: g.ID, Seq: 1, Kind: "move"}, json.RawMessage(`{"seq":9}`), nil); err == nil {
		t.Fatal("expected duplicate seq to fail")
	}
	if raw, _ := games.LoadSession(ctx, g.ID); string(raw) != `{"seq":1}` {
		t.Errorf("session overwritten: %s", raw)
	}
	// A missing game logs nothing.
	if err := repo.Record(ctx, &model.Turn{GameID: "gone", Seq: 1}, json.RawMessage(`{}`), nil); err == nil {
		t.Fatal("expected unknown game to fail")
	}
	if turns, _ := repo.ListByGame(ctx, "gone"); len(turns) != 0 {
		t.Errorf("expected no turns for unknown game, got %d", len(turns))
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	d := time.Now()

	c.SetSession(ctx, "g", json.RawMessage(`{}`))
	c.SetTimer(ctx, "g", d)
	if got, ok := c.Timer("g"); !ok || !got.Equal(d) {
		t.Errorf("timer: %v %v", got, ok)
	}
	c.DeleteGameData(ctx, "g")
	if raw, _ := c.GetSession(ctx, "g"); raw != nil {
		t.Error("expected session removed")
	}
	if _, ok := c.Timer("g"); ok {
		t.Error("expected timer removed")
	}
}
