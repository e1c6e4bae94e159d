// Package router maps client paths to views.
// The table is static: no guards, no nesting, no lazy loading.
package router

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// View names a screen.
type View int

const (
	ItemList View = iota
	CreateItem
	UpdateItem
	TaskStat
)

func (v View) String() string {
	switch v {
	case ItemList:
		return "items"
	case CreateItem:
		return "create-item"
	case UpdateItem:
		return "update-item"
	case TaskStat:
		return "stat-page"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ErrUnknownRoute is returned for paths outside the table.
var ErrUnknownRoute = errors.New("unknown route")

// Route is a resolved path.
type Route struct {
	View View
	ID   int64 // set for UpdateItem only
}

// Path renders the canonical path of r.
func (r Route) Path() string {
	switch r.View {
	case ItemList:
		return ItemsPath()
	case CreateItem:
		return CreateItemPath()
	case UpdateItem:
		return UpdateItemPath(r.ID)
	case TaskStat:
		return StatPagePath()
	}
	return "/"
}

func ItemsPath() string      { return "/items" }
func CreateItemPath() string { return "/create-item" }
func StatPagePath() string   { return "/stat-page" }

func UpdateItemPath(id int64) string {
	return "/update-item/" + strconv.FormatInt(id, 10)
}

// Resolve turns a path into a Route. The empty path redirects to items.
func Resolve(path string) (Route, error) {
	p := strings.Trim(strings.TrimSpace(path), "/")
	segs := strings.Split(p, "/")

	switch {
	case p == "":
		return Route{View: ItemList}, nil
	case len(segs) == 1 && segs[0] == "items":
		return Route{View: ItemList}, nil
	case len(segs) == 1 && segs[0] == "create-item":
		return Route{View: CreateItem}, nil
	case len(segs) == 1 && segs[0] == "stat-page":
		return Route{View: TaskStat}, nil
	case len(segs) == 2 && segs[0] == "update-item":
		id, err := strconv.ParseInt(segs[1], 10, 64)
		if err != nil || id <= 0 {
			return Route{}, fmt.Errorf("%w: %q: bad item id %q", ErrUnknownRoute, path, segs[1])
		}
		return Route{View: UpdateItem, ID: id}, nil
	}
	return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
}
