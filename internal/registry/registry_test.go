package registry

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"fintrack/internal/core"
)

type fakeStore struct {
	names   []string
	listErr error
	created []string
	deleted []string
}

func (s *fakeStore) ListCategoryNames(_ context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.names, nil
}

func (s *fakeStore) CreateCategory(_ context.Context, _ core.Scope, name string) error {
	s.created = append(s.created, name)
	s.names = append(s.names, name)
	return nil
}

func (s *fakeStore) DeleteCategory(_ context.Context, _ core.Scope, name string) error {
	s.deleted = append(s.deleted, name)
	return nil
}

func TestList_SeedsDefaultsWhenEmpty(t *testing.T) {
	store := &fakeStore{}
	r := New(store)

	got, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(got, core.DefaultCategories) {
		t.Errorf("List = %v, want defaults %v", got, core.DefaultCategories)
	}
	if !reflect.DeepEqual(store.created, core.DefaultCategories) {
		t.Errorf("seeded rows = %v, want %v", store.created, core.DefaultCategories)
	}

	// A second call must not seed again.
	if _, err := r.List(context.Background()); err != nil {
		t.Fatalf("second List: %v", err)
	}
	if len(store.created) != len(core.DefaultCategories) {
		t.Errorf("defaults seeded twice: %v", store.created)
	}
}

func TestList_ExistingNamesSkipSeeding(t *testing.T) {
	store := &fakeStore{names: []string{"Rent", "Pets"}}
	r := New(store)

	got, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Rent", "Pets"}) {
		t.Errorf("List = %v", got)
	}
	if len(store.created) != 0 {
		t.Errorf("unexpected seeding: %v", store.created)
	}
}

func TestList_StoreError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	r := New(store)

	if _, err := r.List(context.Background()); err == nil {
		t.Error("expected error from store")
	}
}

func TestAdd(t *testing.T) {
	store := &fakeStore{names: []string{"Food"}}
	r := New(store)

	if err := r.Add(context.Background(), core.GlobalScope, "Books"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(store.created) != 1 || store.created[0] != "Books" {
		t.Errorf("created = %v, want [Books]", store.created)
	}
}

func TestAdd_Duplicate(t *testing.T) {
	store := &fakeStore{names: []string{"Food", "Transport"}}
	r := New(store)

	err := r.Add(context.Background(), core.GlobalScope, "Food")
	if !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("error = %v, want ErrAlreadyExists", err)
	}
	if len(store.created) != 0 {
		t.Errorf("duplicate add mutated the store: %v", store.created)
	}
}

func TestAdd_DuplicateOfSeededDefault(t *testing.T) {
	store := &fakeStore{}
	r := New(store)

	// The empty table seeds first, then the name collides with a default.
	err := r.Add(context.Background(), core.GlobalScope, "Food")
	if !errors.Is(err, core.ErrAlreadyExists) {
		t.Fatalf("error = %v, want ErrAlreadyExists", err)
	}
	if len(store.created) != len(core.DefaultCategories) {
		t.Errorf("created = %v, want only the seeded defaults", store.created)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	store := &fakeStore{names: []string{"Food"}}
	r := New(store)

	if err := r.Remove(context.Background(), core.GlobalScope, "Nope"); err != nil {
		t.Errorf("removing an absent name must not fail: %v", err)
	}
	if err := r.Remove(context.Background(), core.GlobalScope, "Food"); err != nil {
		t.Errorf("Remove: %v", err)
	}
	if !reflect.DeepEqual(store.deleted, []string{"Nope", "Food"}) {
		t.Errorf("deleted = %v", store.deleted)
	}
}
