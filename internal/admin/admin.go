// Package admin describes the staff management surface: which entities can
// be browsed, which columns their listings show, and which fields are
// searchable. Handlers consult this registry instead of hard-coding
// per-entity knowledge.
package admin

// Entity describes one manageable entity type. Field names match the API's
// JSON property names, so the frontend can map columns straight onto
// response objects.
type Entity struct {
	// Name is the entity's URL-safe plural name, e.g. "users".
	Name string `json:"name"`

	// ListDisplay names the columns shown in the entity's list view.
	ListDisplay []string `json:"listDisplay"`

	// SearchFields names the fields matched by the ?q= filter. Empty means
	// the listing is not searchable.
	SearchFields []string `json:"searchFields,omitempty"`

	// Ordering names the default sort fields; a "-" prefix means descending.
	Ordering []string `json:"ordering"`

	// ReadOnlyFields names fields staff can see but never edit.
	ReadOnlyFields []string `json:"readOnlyFields,omitempty"`
}

// Registry returns the full set of manageable entities. The slice is
// rebuilt on each call so callers can't mutate the registry.
func Registry() []Entity {
	return []Entity{
		{
			Name:           "users",
			ListDisplay:    []string{"email", "name", "isActive", "isStaff"},
			SearchFields:   []string{"email", "name"},
			Ordering:       []string{"id"},
			ReadOnlyFields: []string{"lastLogin", "createdAt", "updatedAt"},
		},
		{
			Name:        "recipes",
			ListDisplay: []string{"title", "timeMinutes", "price"},
			Ordering:    []string{"-createdAt"},
		},
		{
			Name:        "tags",
			ListDisplay: []string{"name"},
			Ordering:    []string{"-name"},
		},
		{
			Name:        "ingredients",
			ListDisplay: []string{"name"},
			Ordering:    []string{"-name"},
		},
	}
}

// Lookup returns the entity registered under name.
func Lookup(name string) (Entity, bool) {
	for _, e := range Registry() {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}
