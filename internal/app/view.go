package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/trovehq/trove/internal/entity"
)

// View is the full read-side projection of one record: the universal
// entity plus its computed field values.
type View struct {
	Entity   entity.UniversalEntity
	Computed map[string]any
}

// View builds the projection for one record, going through the entity
// cache and recomputing derived fields from current related data.
func (a *App) View(ctx context.Context, typeName, id string) (View, error) {
	e, err := a.Cache.Get(ctx, entity.NewURN(typeName, id))
	if err != nil {
		return View{}, err
	}

	def, ok := a.Registry.Definition(typeName)
	if !ok {
		// unregistered types have no computed fields
		return View{Entity: e}, nil
	}

	related, err := a.related(ctx, def, id)
	if err != nil {
		return View{}, err
	}
	computed, err := entity.ComputeAll(def, e, related)
	if err != nil {
		return View{}, err
	}

	return View{Entity: e, Computed: computed}, nil
}

// related loads the child collections computed fields derive from. The only
// relation the built-in types declare is project -> tasks via project_id.
func (a *App) related(ctx context.Context, def entity.Definition, id string) (entity.Related, error) {
	if !needsTasks(def) {
		return nil, nil
	}

	recs, err := a.Store.QueryByIndex(ctx, "tasks", "project_id", id)
	if err != nil {
		return nil, fmt.Errorf("load related tasks: %w", err)
	}
	tasks := make([]map[string]any, len(recs))
	for i, rec := range recs {
		tasks[i] = rec
	}
	return entity.Related{"tasks": tasks}, nil
}

func needsTasks(def entity.Definition) bool {
	for _, id := range def.ComputedFields {
		if strings.Contains(id, "task") || id == entity.ComputeProgress {
			return true
		}
	}
	return false
}

func splitURN(urn entity.URN) (typeName, id string, err error) {
	parts := strings.SplitN(string(urn), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed urn %q", urn)
	}
	return parts[0], parts[1], nil
}
