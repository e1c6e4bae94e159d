package router

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"", Route{View: ItemList}},
		{"/", Route{View: ItemList}},
		{"items", Route{View: ItemList}},
		{"/items/", Route{View: ItemList}},
		{"/create-item", Route{View: CreateItem}},
		{"/update-item/5", Route{View: UpdateItem, ID: 5}},
		{"update-item/123456789012", Route{View: UpdateItem, ID: 123456789012}},
		{"/stat-page", Route{View: TaskStat}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Resolve(tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveRejects(t *testing.T) {
	for _, p := range []string{
		"/nope",
		"/update-item",
		"/update-item/abc",
		"/update-item/0",
		"/update-item/-3",
		"/update-item/5/extra",
		"/items/5",
	} {
		t.Run(p, func(t *testing.T) {
			_, err := Resolve(p)
			if !errors.Is(err, ErrUnknownRoute) {
				t.Fatalf("Resolve(%q) err = %v, want ErrUnknownRoute", p, err)
			}
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	for _, r := range []Route{
		{View: ItemList},
		{View: CreateItem},
		{View: UpdateItem, ID: 5},
		{View: TaskStat},
	} {
		got, err := Resolve(r.Path())
		if err != nil {
			t.Fatalf("Resolve(%q): %v", r.Path(), err)
		}
		if got != r {
			t.Errorf("round trip %+v -> %q -> %+v", r, r.Path(), got)
		}
	}
}

func TestViewString(t *testing.T) {
	if ItemList.String() != "items" || UpdateItem.String() != "update-item" {
		t.Errorf("unexpected names: %s %s", ItemList, UpdateItem)
	}
	if View(42).String() != "View(42)" {
		t.Errorf("fallback = %s", View(42))
	}
}
