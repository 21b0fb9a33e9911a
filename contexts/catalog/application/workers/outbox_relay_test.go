package workers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"carte/contexts/catalog/adapters/memory"
	"carte/contexts/catalog/domain/entities"
	"carte/contexts/catalog/domain/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedMutations(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	now := store.Now()
	if _, _, err := store.CreateMenu(ctx, entities.Menu{
		MenuID: "menu-1", Title: "Lunch", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	if _, _, err := store.CreateSubmenu(ctx, entities.Submenu{
		SubmenuID: "submenu-1", MenuID: "menu-1", Title: "Soups", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed submenu: %v", err)
	}
	title := "Brunch"
	if _, _, err := store.UpdateMenu(ctx, "menu-1", entities.MenuPatch{Title: &title}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
}

func TestRunOncePublishesInCreationOrder(t *testing.T) {
	store := memory.NewStore()
	publisher := memory.NewPublisher()
	seedMutations(t, store)

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, Logger: testLogger()}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	published := publisher.Published()
	if len(published) != 3 {
		t.Fatalf("published %d events, want 3", len(published))
	}
	wantTopics := []string{events.TopicMenus, events.TopicSubmenus, events.TopicMenus}
	for i, want := range wantTopics {
		if published[i].Topic != want {
			t.Fatalf("event %d on topic %s, want %s", i, published[i].Topic, want)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("%d rows still pending after a clean run", len(pending))
	}
}

func TestRunOnceIsIdempotentWhenDrained(t *testing.T) {
	store := memory.NewStore()
	publisher := memory.NewPublisher()
	seedMutations(t, store)

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, Logger: testLogger()}
	for i := 0; i < 2; i++ {
		if err := relay.RunOnce(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if got := len(publisher.Published()); got != 3 {
		t.Fatalf("published %d events, a drained outbox must not republish", got)
	}
}

func TestPublishFailureRetainsRowForRetry(t *testing.T) {
	store := memory.NewStore()
	publisher := memory.NewPublisher()
	seedMutations(t, store)
	publisher.FailWith(errors.New("broker down"))

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, Logger: testLogger()}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("run must surface the publish failure")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("%d rows pending, failed publishes must keep all rows", len(pending))
	}

	publisher.Heal()
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry run: %v", err)
	}
	if got := len(publisher.Published()); got != 3 {
		t.Fatalf("published %d events after recovery, want 3", got)
	}
}

func TestCrashBetweenPublishAndMarkRepublishesSamePayload(t *testing.T) {
	store := memory.NewStore()
	publisher := memory.NewPublisher()
	ctx := context.Background()
	now := store.Now()
	if _, _, err := store.CreateMenu(ctx, entities.Menu{
		MenuID: "menu-1", Title: "Lunch", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	store.FailNextMark(errors.New("relay crashed"))

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, Logger: testLogger()}
	if err := relay.RunOnce(ctx); err == nil {
		t.Fatal("run must surface the mark failure")
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("rerun: %v", err)
	}

	published := publisher.Published()
	if len(published) != 2 {
		t.Fatalf("published %d events, want the at-least-once duplicate", len(published))
	}
	if !bytes.Equal(published[0].Payload, published[1].Payload) || published[0].Key != published[1].Key {
		t.Fatal("the redelivered event must be byte-identical to the original")
	}

	pending, err := store.ListPendingOutbox(ctx, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("%d rows pending after recovery", len(pending))
	}
}

func TestBatchSizeBoundsSinglePass(t *testing.T) {
	store := memory.NewStore()
	publisher := memory.NewPublisher()
	ctx := context.Background()
	for _, id := range []string{"menu-1", "menu-2", "menu-3"} {
		now := store.Now()
		if _, _, err := store.CreateMenu(ctx, entities.Menu{
			MenuID: id, Title: id, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 2, Logger: testLogger()}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if got := len(publisher.Published()); got != 2 {
		t.Fatalf("published %d events, batch size must cap the pass at 2", got)
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if got := len(publisher.Published()); got != 3 {
		t.Fatalf("published %d events after second pass, want 3", got)
	}
}
