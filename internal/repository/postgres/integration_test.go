//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/freeeve/cerke-arbiter/internal/model"
	"github.com/freeeve/cerke-arbiter/internal/testutil"
)

var testDB *sql.DB

func setup(t *testing.T) {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
}

func createTestUser(t *testing.T, repo *UserRepo, suffix string) *model.User {
	t.Helper()
	u, err := repo.Upsert(context.Background(), "google", "provider-"+suffix, "User "+suffix, "https://avatar/"+suffix)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

func createTestGame(t *testing.T, creator *model.User) (*GameRepo, *model.Game) {
	t.Helper()
	repo := NewGameRepo(testDB)
	g, err := repo.Create(context.Background(), "Test Game", creator.ID, "online_alpha", "dense")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return repo, g
}

func TestUserUpsertCreatesAndUpdates(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)
	ctx := context.Background()

	u1, err := repo.Upsert(ctx, "google", "goog-456", "Bob", "https://old")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if u1.ID == "" || u1.DisplayName != "Bob" {
		t.Fatalf("unexpected user %+v", u1)
	}

	u2, err := repo.Upsert(ctx, "google", "goog-456", "Bobby", "")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if u1.ID != u2.ID {
		t.Fatalf("upsert should return same ID: %s vs %s", u1.ID, u2.ID)
	}
	if u2.DisplayName != "Bobby" || u2.AvatarURL != "" {
		t.Fatalf("expected updated user, got %+v", u2)
	}
}

func TestUserFind(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)
	ctx := context.Background()
	u := createTestUser(t, repo, "find")

	byID, err := repo.FindByID(ctx, u.ID)
	if err != nil || byID == nil || byID.ID != u.ID {
		t.Fatalf("FindByID: %+v, %v", byID, err)
	}
	byProvider, err := repo.FindByProviderID(ctx, "google", "provider-find")
	if err != nil || byProvider == nil || byProvider.ID != u.ID {
		t.Fatalf("FindByProviderID: %+v, %v", byProvider, err)
	}
	missing, err := repo.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing user, got %+v, %v", missing, err)
	}
}

func TestUserUpdateDisplayName(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)
	ctx := context.Background()
	u := createTestUser(t, repo, "rename")

	if err := repo.UpdateDisplayName(ctx, u.ID, "Renamed"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.FindByID(ctx, u.ID)
	if got.DisplayName != "Renamed" {
		t.Fatalf("expected Renamed, got %s", got.DisplayName)
	}
	if err := repo.UpdateDisplayName(ctx, "00000000-0000-0000-0000-000000000000", "x"); err == nil {
		t.Fatal("expected error for missing user")
	}
}

func TestGameCreateAndFind(t *testing.T) {
	setup(t)
	users := NewUserRepo(testDB)
	creator := createTestUser(t, users, "creator")
	repo, g := createTestGame(t, creator)
	ctx := context.Background()

	if g.Status != "waiting" || g.Ruleset != "online_alpha" || g.Encoding != "dense" {
		t.Fatalf("unexpected game %+v", g)
	}
	if err := repo.JoinGame(ctx, g.ID, creator.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	found, err := repo.FindByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found.Players) != 1 || found.Players[0].UserID != creator.ID || found.Players[0].Side != "" {
		t.Fatalf("unexpected players %+v", found.Players)
	}
}

func TestGameJoinIdempotent(t *testing.T) {
	setup(t)
	users := NewUserRepo(testDB)
	creator := createTestUser(t, users, "creator")
	repo, g := createTestGame(t, creator)
	ctx := context.Background()

	for range 2 {
		if err := repo.JoinGame(ctx, g.ID, creator.ID); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	n, err := repo.PlayerCount(ctx, g.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 player, got %d, %v", n, err)
	}
}

func TestGameLists(t *testing.T) {
	setup(t)
	users := NewUserRepo(testDB)
	alice := createTestUser(t, users, "alice")
	bob := createTestUser(t, users, "bob")
	repo, g := createTestGame(t, alice)
	ctx := context.Background()

	open, err := repo.ListOpen(ctx)
	if err != nil || len(open) != 1 {
		t.Fatalf("ListOpen: %d, %v", len(open), err)
	}
	repo.JoinGame(ctx, g.ID, alice.ID)
	repo.JoinGame(ctx, g.ID, bob.ID)
	mine, err := repo.ListByUser(ctx, bob.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListByUser: %d, %v", len(mine), err)
	}

	if err := repo.AssignSides(ctx, g.ID, map[string]string{alice.ID: "ia", bob.ID: "a"}); err != nil {
		t.Fatalf("assign sides: %v", err)
	}
	active, err := repo.ListActive(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("ListActive: %d, %v", len(active), err)
	}
	if active[0].SideOf(alice.ID) != "ia" || active[0].PlayerOn("a") != bob.ID {
		t.Fatalf("unexpected sides %+v", active[0].Players)
	}
	if active[0].StartedAt == nil {
		t.Fatal("expected started_at to be set")
	}
	open, _ = repo.ListOpen(ctx)
	if len(open) != 0 {
		t.Fatalf("expected no open games, got %d", len(open))
	}
}

func TestGameSessionAndExpiry(t *testing.T) {
	setup(t)
	users := NewUserRepo(testDB)
	alice := createTestUser(t, users, "alice")
	repo, g := createTestGame(t, alice)
	ctx := context.Background()

	got, err := repo.LoadSession(ctx, g.ID)
	if err != nil || got != nil {
		t.Fatalf("expected no session, got %s, %v", got, err)
	}

	repo.JoinGame(ctx, g.ID, alice.ID)
	repo.AssignSides(ctx, g.ID, map[string]string{alice.ID: "ia"})

	past := time.Now().Add(-time.Minute)
	session := json.RawMessage(`{"stage":"ground"}`)
	if err := repo.SaveSession(ctx, g.ID, session, &past); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, err = repo.LoadSession(ctx, g.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(got, &decoded); err != nil || decoded["stage"] != "ground" {
		t.Fatalf("unexpected session %s", got)
	}

	expired, err := repo.ListExpired(ctx)
	if err != nil || len(expired) != 1 || expired[0] != g.ID {
		t.Fatalf("ListExpired: %v, %v", expired, err)
	}
	if err := repo.SaveSession(ctx, g.ID, session, nil); err != nil {
		t.Fatalf("clear deadline: %v", err)
	}
	expired, _ = repo.ListExpired(ctx)
	if len(expired) != 0 {
		t.Fatalf("expected no expired games, got %v", expired)
	}
}

func TestGameSetFinishedAndDelete(t *testing.T) {
	setup(t)
	users := NewUserRepo(testDB)
	alice := createTestUser(t, users, "alice")
	repo, g := createTestGame(t, alice)
	ctx := context.Background()

	if err := repo.SetFinished(ctx, g.ID, "ia"); err != nil {
		t.Fatalf("set finished: %v", err)
	}
	found, _ := repo.FindByID(ctx, g.ID)
	if found.Status != "finished" || found.Winner != "ia" || found.FinishedAt == nil {
		t.Fatalf("unexpected game %+v", found)
	}
	finished, err := repo.ListFinished(ctx)
	if err != nil || len(finished) != 1 {
		t.Fatalf("ListFinished: %d, %v", len(finished), err)
	}

	if err := repo.Delete(ctx, g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	found, err = repo.FindByID(ctx, g.ID)
	if err != nil || found != nil {
		t.Fatalf("expected deleted game, got %+v, %v", found, err)
	}
}

func TestTurnAppendAndList(t *testing.T) {
	setup(t)
	users := NewUserRepo(testDB)
	alice := createTestUser(t, users, "alice")
	_, g := createTestGame(t, alice)
	turns := NewTurnRepo(testDB)
	ctx := context.Background()

	wire := int64(0x12345)
	cast := 3
	first := &model.Turn{
		GameID: g.ID, Seq: 1, Season: "spring", Side: "ia", Stage: "ground", Kind: "move",
		WireCode: &wire, Payload: json.RawMessage(`{"src":"KAU"}`), Outcome: "excited",
	}
	second := &model.Turn{
		GameID: g.ID, Seq: 2, Season: "spring", Side: "ia", Stage: "excited", Kind: "after_cast",
		CastValue: &cast, Outcome: "turn_passes", StateAfter: json.RawMessage(`{"type":"ground"}`),
	}
	for _, turn := range []*model.Turn{first, second} {
		if err := turns.Append(ctx, turn); err != nil {
			t.Fatalf("append: %v", err)
		}
		if turn.ID == "" || turn.CreatedAt.IsZero() {
			t.Fatalf("expected generated id and timestamp, got %+v", turn)
		}
	}
	if err := turns.Append(ctx, &model.Turn{GameID: g.ID, Seq: 2, Season: "spring", Side: "a", Stage: "ground", Kind: "move", Outcome: "x"}); err == nil {
		t.Fatal("expected duplicate seq to fail")
	}

	list, err := turns.ListByGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(list))
	}
	if list[0].WireCode == nil || *list[0].WireCode != wire || list[0].CastValue != nil {
		t.Fatalf("unexpected first turn %+v", list[0])
	}
	if list[1].CastValue == nil || *list[1].CastValue != 3 || list[1].WireCode != nil {
		t.Fatalf("unexpected second turn %+v", list[1])
	}
}

func TestTurnRecordIsAtomic(t *testing.T) {
	setup(t)
	users := NewUserRepo(testDB)
	alice := createTestUser(t, users, "alice")
	games, g := createTestGame(t, alice)
	turns := NewTurnRepo(testDB)
	ctx := context.Background()

	deadline := time.Now().Add(time.Minute).UTC().Truncate(time.Second)
	turn := &model.Turn{GameID: g.ID, Seq: 1, Season: "spring", Side: "ia", Stage: "ground", Kind: "start", Outcome: "started"}
	if err := turns.Record(ctx, turn, json.RawMessage(`{"seq": 1}`), &deadline); err != nil {
		t.Fatalf("record: %v", err)
	}
	dup := &model.Turn{GameID: g.ID, Seq: 1, Season: "spring", Side: "a", Stage: "ground", Kind: "move", Outcome: "x"}
	if err := turns.Record(ctx, dup, json.RawMessage(`{"seq": 9}`), nil); err == nil {
		t.Fatal("expected duplicate seq to fail")
	}

	raw, err := games.LoadSession(ctx, g.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	var sess struct {
		Seq int `json:"seq"`
	}
	if err := json.Unmarshal(raw, &sess); err != nil || sess.Seq != 1 {
		t.Fatalf("rolled back record must keep the first session, got %s (%v)", raw, err)
	}
	list, _ := turns.ListByGame(ctx, g.ID)
	if len(list) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(list))
	}
}
