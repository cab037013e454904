package admin

import "testing"

func TestRegistryCoversAllEntities(t *testing.T) {
	want := []string{"users", "recipes", "tags", "ingredients"}

	entities := Registry()
	if len(entities) != len(want) {
		t.Fatalf("Registry() has %d entities, want %d", len(entities), len(want))
	}
	for i, name := range want {
		if entities[i].Name != name {
			t.Errorf("entity %d = %q, want %q", i, entities[i].Name, name)
		}
		if len(entities[i].ListDisplay) == 0 {
			t.Errorf("entity %q has no list display columns", name)
		}
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("users")
	if !ok {
		t.Fatal("Lookup(users) not found")
	}
	if len(e.SearchFields) == 0 {
		t.Error("users entity should be searchable")
	}

	if _, ok := Lookup("nonexistent"); ok {
		t.Error("Lookup(nonexistent) = true, want false")
	}
}
