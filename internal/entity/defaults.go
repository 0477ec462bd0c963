package entity

import (
	"github.com/trovehq/trove/internal/fsm"
	"github.com/trovehq/trove/internal/validate"
)

// Action ids shared across type definitions.
const (
	ActionCreate     = "create"
	ActionEdit       = "edit"
	ActionDelete     = "delete"
	ActionTransition = "transition"
)

// DefaultRegistry builds the registry with trove's built-in record types.
// This is the single author-maintained table the configuration surface
// describes: adding a type means adding one entry here.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(
		projectDef(),
		taskDef(),
		inventoryItemDef(),
		noteDef(),
		contactDef(),
		shipmentDef(),
	)
}

func projectDef() Definition {
	return Definition{
		Name:          "project",
		Table:         "projects",
		PrimaryField:  "name",
		SubtitleField: "summary",
		Schema: validate.NewFieldSchema().
			Field("name", validate.Rule{Required: true, Kind: validate.KindString, MaxLen: 120}).
			Field("summary", validate.Rule{Kind: validate.KindString, MaxLen: 500}).
			Field("status", validate.Rule{Kind: validate.KindString,
				Enum: []string{"planning", "active", "on_hold", "completed", "archived"}}).
			Field("due_date", validate.Rule{Kind: validate.KindDate}).
			Field("tags", validate.Rule{Kind: validate.KindTags}),
		MachineID:      fsm.ProjectFlow,
		ComputedFields: []string{ComputeProgress, ComputeTaskCount, ComputeOpenTaskCount},
		Actions:        []string{ActionCreate, ActionEdit, ActionDelete, ActionTransition},
		SearchFields:   []string{"name", "summary"},
		TagsField:      "tags",
		DateFields:     []string{"due_date"},
		Icon:           "◆",
		Color:          "#A78BFA",
		Collapsible:    true,
	}
}

func taskDef() Definition {
	return Definition{
		Name:          "task",
		Table:         "tasks",
		PrimaryField:  "title",
		SubtitleField: "project_id",
		Schema: validate.NewFieldSchema().
			Field("title", validate.Rule{Required: true, Kind: validate.KindString, MaxLen: 200}).
			Field("status", validate.Rule{Kind: validate.KindString,
				Enum: []string{"todo", "in_progress", "blocked", "done"}}).
			Field("priority", validate.Rule{Kind: validate.KindNumber,
				Min: validate.Num(0), Max: validate.Num(3)}).
			Field("due_date", validate.Rule{Kind: validate.KindDate}).
			Field("tags", validate.Rule{Kind: validate.KindTags}),
		MachineID:      fsm.TaskFlow,
		ComputedFields: []string{ComputeDaysUntilDue},
		Actions:        []string{ActionCreate, ActionEdit, ActionDelete, ActionTransition},
		SearchFields:   []string{"title"},
		TagsField:      "tags",
		DateFields:     []string{"due_date"},
		Icon:           "☐",
		Color:          "#54A0FF",
	}
}

func inventoryItemDef() Definition {
	return Definition{
		Name:          "inventory_item",
		Table:         "inventory_items",
		PrimaryField:  "name",
		SubtitleField: "location",
		Schema: validate.NewFieldSchema().
			Field("name", validate.Rule{Required: true, Kind: validate.KindString, MaxLen: 120}).
			Field("location", validate.Rule{Kind: validate.KindString, MaxLen: 120}).
			Field("quantity", validate.Rule{Kind: validate.KindNumber, Min: validate.Num(0)}).
			Field("unit_price", validate.Rule{Kind: validate.KindNumber, Min: validate.Num(0)}).
			Field("tags", validate.Rule{Kind: validate.KindTags}),
		ComputedFields: []string{ComputeStockValue},
		Actions:        []string{ActionCreate, ActionEdit, ActionDelete},
		SearchFields:   []string{"name", "location"},
		TagsField:      "tags",
		ThumbnailField: "photo",
		Icon:           "▣",
		Color:          "#FBBF24",
	}
}

// noteDef has no schema: notes are free-form and run in documented
// permissive mode, where mutations bypass validation.
func noteDef() Definition {
	return Definition{
		Name:         "note",
		Table:        "notes",
		PrimaryField: "title",
		Actions:      []string{ActionCreate, ActionEdit, ActionDelete},
		SearchFields: []string{"title", "body"},
		TagsField:    "tags",
		Icon:         "≡",
		Color:        "#6B7280",
	}
}

func contactDef() Definition {
	return Definition{
		Name:          "contact",
		Table:         "contacts",
		PrimaryField:  "name",
		SubtitleField: "email",
		Schema: validate.NewFieldSchema().
			Field("name", validate.Rule{Required: true, Kind: validate.KindString, MaxLen: 120}).
			Field("email", validate.Rule{Kind: validate.KindString, MaxLen: 254}).
			Field("phone", validate.Rule{Kind: validate.KindString, MaxLen: 32}),
		Actions:        []string{ActionCreate, ActionEdit, ActionDelete},
		SearchFields:   []string{"name", "email"},
		ThumbnailField: "avatar",
		Icon:           "◉",
		Color:          "#34D399",
	}
}

func shipmentDef() Definition {
	return Definition{
		Name:          "shipment",
		Table:         "shipments",
		PrimaryField:  "reference",
		SubtitleField: "carrier",
		Schema: validate.NewFieldSchema().
			Field("reference", validate.Rule{Required: true, Kind: validate.KindString, MaxLen: 64}).
			Field("carrier", validate.Rule{Kind: validate.KindString, MaxLen: 64}).
			Field("status", validate.Rule{Kind: validate.KindString,
				Enum: []string{"pending", "in_transit", "delivered", "returned", "cancelled"}}).
			Field("ship_date", validate.Rule{Kind: validate.KindDate}),
		MachineID:    fsm.ShipmentFlow,
		Actions:      []string{ActionCreate, ActionEdit, ActionTransition},
		SearchFields: []string{"reference", "carrier"},
		DateFields:   []string{"ship_date"},
		Icon:         "▷",
		Color:        "#F87171",
	}
}
