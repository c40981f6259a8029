package draftstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/initialization"
)

var store *Store
var ctx = context.Background()

func TestMain(m *testing.M) {
	d, err := initialization.OpenDB("file:draftstest?mode=memory&cache=shared")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open connection: %s", err)
		return
	}

	err = initialization.SetupDB(d, "../../migrations", "draftstest")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %s", err)
		return
	}

	store = New(d)
	m.Run()
	d.Close()
}

func sampleDraft(title string) domain.LessonDraft {
	return domain.LessonDraft{
		Title:       title,
		Instructor1: "Kim",
		Price:       "12000",
		Discounts:   []domain.DiscountDraft{{Type: "early", Amount: "2000"}},
		Contacts:    []domain.ContactDraft{{Type: "phone", Contact: "010-1234-5678"}},
	}
}

func TestSaveAndLoad(t *testing.T) {
	want := sampleDraft("tango")
	if err := store.Save(ctx, 1, want); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	got, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Error(diff)
	}
}

func TestLoadMissing(t *testing.T) {
	got, err := store.Load(ctx, 404)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != nil {
		t.Errorf("expected no draft, got %+v", got)
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	if err := store.Save(ctx, 2, sampleDraft("first")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, 2, sampleDraft("second")); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "second" {
		t.Errorf("expected the later draft, got %q", got.Title)
	}
}

func TestClear(t *testing.T) {
	if err := store.Save(ctx, 3, sampleDraft("doomed")); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx, 3); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	got, err := store.Load(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("draft survived a clear: %+v", got)
	}

	// Clearing an absent draft is a no-op, not an error.
	if err := store.Clear(ctx, 3); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
