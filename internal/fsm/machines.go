package fsm

// Machine ids referenced by entity type definitions.
const (
	TaskFlow     = "task_flow"
	ProjectFlow  = "project_flow"
	ShipmentFlow = "shipment_flow"
)

// Default returns the built-in machine set.
// The graphs here are static author-time configuration; NewSet validates
// them, so a broken graph fails at startup rather than mid-command.
func Default() (*Set, error) {
	return NewSet(taskFlow(), projectFlow(), shipmentFlow())
}

func taskFlow() Machine {
	return Machine{
		ID:      TaskFlow,
		Initial: "todo",
		States: map[string]State{
			"todo": {
				Label: "To Do", Color: "#6B7280", Icon: "○",
				On: map[string]string{
					"START": "in_progress",
					"BLOCK": "blocked",
				},
			},
			"in_progress": {
				Label: "In Progress", Color: "#54A0FF", Icon: "◐",
				On: map[string]string{
					"COMPLETE": "done",
					"BLOCK":    "blocked",
					"STOP":     "todo",
				},
			},
			"blocked": {
				Label: "Blocked", Color: "#FF8787", Icon: "⊘",
				On: map[string]string{
					"UNBLOCK": "todo",
				},
			},
			"done": {
				Label: "Done", Color: "#73F59F", Icon: "●",
				On: map[string]string{
					"REOPEN": "todo",
				},
			},
		},
	}
}

func projectFlow() Machine {
	return Machine{
		ID:      ProjectFlow,
		Initial: "planning",
		States: map[string]State{
			"planning": {
				Label: "Planning", Color: "#A78BFA", Icon: "◇",
				On: map[string]string{
					"ACTIVATE": "active",
					"ABANDON":  "archived",
				},
			},
			"active": {
				Label: "Active", Color: "#54A0FF", Icon: "◆",
				On: map[string]string{
					"HOLD":     "on_hold",
					"COMPLETE": "completed",
				},
			},
			"on_hold": {
				Label: "On Hold", Color: "#FBBF24", Icon: "◈",
				On: map[string]string{
					"RESUME":  "active",
					"ABANDON": "archived",
				},
			},
			"completed": {
				Label: "Completed", Color: "#73F59F", Icon: "✓",
				On: map[string]string{
					"ARCHIVE": "archived",
				},
			},
			// Terminal.
			"archived": {
				Label: "Archived", Color: "#6B7280", Icon: "▣",
				On:    map[string]string{},
			},
		},
	}
}

func shipmentFlow() Machine {
	return Machine{
		ID:      ShipmentFlow,
		Initial: "pending",
		States: map[string]State{
			"pending": {
				Label: "Pending", Color: "#6B7280", Icon: "□",
				On: map[string]string{
					"SHIP":   "in_transit",
					"CANCEL": "cancelled",
				},
			},
			"in_transit": {
				Label: "In Transit", Color: "#54A0FF", Icon: "▷",
				On: map[string]string{
					"DELIVER": "delivered",
					"RETURN":  "returned",
				},
			},
			"returned": {
				Label: "Returned", Color: "#FF8787", Icon: "◁",
				On: map[string]string{
					"RESHIP": "in_transit",
				},
			},
			// Terminal states.
			"delivered": {
				Label: "Delivered", Color: "#73F59F", Icon: "✓",
				On:    map[string]string{},
			},
			"cancelled": {
				Label: "Cancelled", Color: "#6B7280", Icon: "✕",
				On:    map[string]string{},
			},
		},
	}
}
