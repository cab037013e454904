package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/recipebox/internal/apperror"
	"github.com/sakif/recipebox/internal/model"
)

func newTestTagService() (*TagService, *mockTagRepo) {
	repo := newMockTagRepo()
	return NewTagService(repo, testLogger()), repo
}

func TestTagCreate_Success(t *testing.T) {
	svc, _ := newTestTagService()

	tag, err := svc.Create(context.Background(), "user-a", "  Comfort food  ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if tag.ID == "" {
		t.Error("expected tag to have an ID")
	}
	if tag.Name != "Comfort food" {
		t.Errorf("Name = %q, want trimmed %q", tag.Name, "Comfort food")
	}
	if tag.UserID != "user-a" {
		t.Errorf("UserID = %q, want %q", tag.UserID, "user-a")
	}
}

func TestTagCreate_Validation(t *testing.T) {
	svc, _ := newTestTagService()

	for _, name := range []string{"", "   ", strings.Repeat("a", MaxCatalogNameLength+1)} {
		_, err := svc.Create(context.Background(), "user-a", name)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestTagGet_ScopedToOwner(t *testing.T) {
	svc, _ := newTestTagService()

	created, err := svc.Create(context.Background(), "user-a", "mine")
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	_, err = svc.Get(context.Background(), "user-b", created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("foreign Get() error = %v, want ErrNotFound", err)
	}
}

func TestTagList_NameDescending(t *testing.T) {
	svc, _ := newTestTagService()

	for _, name := range []string{"apple", "zucchini", "mango"} {
		if _, err := svc.Create(context.Background(), "user-a", name); err != nil {
			t.Fatalf("setup: Create() error = %v", err)
		}
	}

	tags, err := svc.List(context.Background(), "user-a", false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"zucchini", "mango", "apple"}
	if len(tags) != len(want) {
		t.Fatalf("got %d tags, want %d", len(tags), len(want))
	}
	for i, name := range want {
		if tags[i].Name != name {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i].Name, name)
		}
	}
}

func TestTagList_AssignedOnly(t *testing.T) {
	svc, repo := newTestTagService()

	used, err := svc.Create(context.Background(), "user-a", "used")
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-a", "unused"); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}
	repo.assigned[used.ID] = true

	tags, err := svc.List(context.Background(), "user-a", true)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tags) != 1 || tags[0].ID != used.ID {
		t.Errorf("got %v, want only the assigned tag", tags)
	}
}

func TestTagList_DoesNotLeakOtherUsers(t *testing.T) {
	svc, _ := newTestTagService()

	if _, err := svc.Create(context.Background(), "user-a", "mine"); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-b", "theirs"); err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	tags, err := svc.List(context.Background(), "user-a", false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "mine" {
		t.Errorf("got %v, want only the caller's tag", tags)
	}
}

func TestTagUpdate_Rename(t *testing.T) {
	svc, _ := newTestTagService()

	created, err := svc.Create(context.Background(), "user-a", "old name")
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	updated, err := svc.Update(context.Background(), "user-a", created.ID, "new name")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "new name" {
		t.Errorf("Name = %q, want %q", updated.Name, "new name")
	}
}

func TestTagUpdate_ForeignTag(t *testing.T) {
	svc, _ := newTestTagService()

	created, err := svc.Create(context.Background(), "user-a", "mine")
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	_, err = svc.Update(context.Background(), "user-b", created.ID, "stolen")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestTagDelete(t *testing.T) {
	svc, _ := newTestTagService()

	created, err := svc.Create(context.Background(), "user-a", "doomed")
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), "user-a", created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = svc.Get(context.Background(), "user-a", created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
}

func TestTagDelete_ForeignTag(t *testing.T) {
	svc, repo := newTestTagService()

	created, err := svc.Create(context.Background(), "user-a", "mine")
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	err = svc.Delete(context.Background(), "user-b", created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// And the tag survives.
	if _, ok := repo.tags[created.ID]; !ok {
		t.Error("foreign delete removed the tag")
	}
}

// Service-level smoke check that the model still stringifies by name — the
// admin listing displays tags this way.
func TestTagString(t *testing.T) {
	tag := model.Tag{Name: "dessert"}
	if tag.String() != "dessert" {
		t.Errorf("String() = %q, want %q", tag.String(), "dessert")
	}
}
