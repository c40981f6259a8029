package todo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	mock_remote "github.com/hyeonwoo/lessondesk/internal/mocks"
	"github.com/hyeonwoo/lessondesk/internal/remote"
	"github.com/hyeonwoo/lessondesk/internal/session"
	"github.com/hyeonwoo/lessondesk/internal/validate"
)

var ctx = context.Background()

func testSession() *domain.Session {
	return &domain.Session{
		AccessToken: "token",
		User:        domain.User{ID: uuid.New(), Email: "user@example.com"},
	}
}

func TestFetchScopedToSessionUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	service := NewService(store)
	sess := testSession()
	uid := sess.User.ID.String()

	store.EXPECT().
		Select(gomock.Any(), "todos",
			remote.Where(remote.Eq("user_id", uid)).OrderedBy("created_at", true)).
		Return([]remote.Record{
			{"id": float64(1), "text": "buy milk", "completed": false, "user_id": uid},
			{"id": float64(2), "text": "practice", "completed": true, "user_id": uid},
		}, nil)

	todos, err := service.Fetch(ctx, sess)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if todos[0].Text != "buy milk" || todos[1].Completed != true {
		t.Errorf("rows parsed wrong: %+v", todos)
	}
}

func TestFetchWithNoRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	service := NewService(store)

	store.EXPECT().Select(gomock.Any(), "todos", gomock.Any()).Return(nil, nil)

	todos, err := service.Fetch(ctx, testSession())
	if err != nil {
		t.Fatalf("a user with no todos is not an error, got %s", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Errorf("expected an empty slice, got %v", todos)
	}
}

func TestFetchWithoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(mock_remote.NewMockStore(ctrl))

	if _, err := service.Fetch(ctx, nil); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestAddRejectsBlankText(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(mock_remote.NewMockStore(ctrl))

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := service.Add(ctx, testSession(), text)
		var vErr *validate.Error
		if !errors.As(err, &vErr) {
			t.Errorf("Add(%q): expected a validation error, got %v", text, err)
		}
	}
}

func TestAddStoresTrimmedText(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	service := NewService(store)
	sess := testSession()
	uid := sess.User.ID.String()

	store.EXPECT().
		Insert(gomock.Any(), "todos", []remote.Record{{
			"text":      "buy milk",
			"completed": false,
			"user_id":   uid,
		}}).
		Return([]remote.Record{{"id": float64(5), "text": "buy milk", "completed": false, "user_id": uid}}, nil)

	added, err := service.Add(ctx, sess, "  buy milk  ")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if added.Text != "buy milk" || added.Completed {
		t.Errorf("wrong todo: %+v", added)
	}
}

func TestToggleNegatesCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	service := NewService(store)

	lookup := remote.Where(remote.Eq("id", int64(5)))
	gomock.InOrder(
		store.EXPECT().
			Select(gomock.Any(), "todos", lookup).
			Return([]remote.Record{{"id": float64(5), "text": "buy milk", "completed": false}}, nil),
		store.EXPECT().
			Update(gomock.Any(), "todos", lookup, remote.Record{"completed": true}).
			Return([]remote.Record{{"id": float64(5), "text": "buy milk", "completed": true}}, nil),
	)

	toggled, err := service.Toggle(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !toggled.Completed {
		t.Error("completed flag not negated")
	}
}

func TestToggleMissingTodo(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	service := NewService(store)

	store.EXPECT().Select(gomock.Any(), "todos", gomock.Any()).Return(nil, nil)

	if _, err := service.Toggle(ctx, 404); !errors.Is(err, remote.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEditText(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	service := NewService(store)

	store.EXPECT().
		Update(gomock.Any(), "todos",
			remote.Where(remote.Eq("id", int64(5))),
			remote.Record{"text": "buy oat milk"}).
		Return([]remote.Record{{"id": float64(5), "text": "buy oat milk", "completed": false}}, nil)

	edited, err := service.EditText(ctx, 5, " buy oat milk ")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if edited.Text != "buy oat milk" {
		t.Errorf("text not updated: %q", edited.Text)
	}
}
