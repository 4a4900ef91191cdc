package notion

import (
	"github.com/instylab/tasksync/internal/task"
)

// maxDescriptionLen is the store-imposed limit on a rich_text value.
const maxDescriptionLen = 2000

// BuildProperties translates a normalized task into the database's
// property payload, keyed by property id. Pure transform; the only
// failure mode is a schema missing a required property, which is a
// configuration error.
func BuildProperties(schema Schema, t task.Task) (map[string]any, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	pid := schema.PropertyIDs

	name := t.Name
	if name == "" {
		// Normalization drops nameless tasks before this point.
		name = "Untitled"
	}

	description := t.Description
	if runes := []rune(description); len(runes) > maxDescriptionLen {
		description = string(runes[:maxDescriptionLen])
	}

	return map[string]any{
		pid["name"]: map[string]any{
			"title": []any{
				map[string]any{"text": map[string]any{"content": name}},
			},
		},
		pid["field"]:    selectPayload(t.Field),
		pid["process"]:  selectPayload(t.Process),
		pid["function"]: selectPayload(t.Function),
		pid["priority"]: selectPayload(t.Priority),
		pid["start"]:    datePayload(t.Start),
		pid["end"]:      datePayload(t.End),
		pid["description"]: map[string]any{
			"rich_text": []any{
				map[string]any{"text": map[string]any{"content": description}},
			},
		},
		pid["progress"]: map[string]any{"number": t.Progress},
	}, nil
}

func selectPayload(value string) map[string]any {
	return map[string]any{"select": map[string]any{"name": value}}
}

// datePayload emits the store's "no date" form for an absent value.
// Normalization always fills dates, but the mapper must not fail when
// one slips through empty.
func datePayload(value string) map[string]any {
	if value == "" {
		return map[string]any{"date": nil}
	}
	return map[string]any{"date": map[string]any{"start": value}}
}
