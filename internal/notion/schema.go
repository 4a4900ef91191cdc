package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrNoTitleProperty indicates a database without a title property.
	ErrNoTitleProperty = errors.New("no title property found in database")

	// ErrMissingProperty indicates a task field the database schema has
	// no property for. This is a configuration error: any payload built
	// against the schema would be malformed, so callers abort early.
	ErrMissingProperty = errors.New("required property missing from database schema")
)

// requiredProperties are the task fields every target database must
// carry, keyed by property name.
var requiredProperties = []string{
	"name", "field", "process", "function",
	"start", "end", "description", "priority", "progress",
}

// Schema describes the target database: which property is the title
// and the name-to-id map used to key property payloads.
type Schema struct {
	TitleProperty string
	PropertyIDs   map[string]string
}

// RetrieveSchema fetches the database definition and extracts the
// title property name and the property name-to-id map.
func (c *Client) RetrieveSchema(ctx context.Context, databaseID string) (Schema, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/databases/"+databaseID, nil)
	if err != nil {
		return Schema{}, err
	}

	schema := Schema{PropertyIDs: make(map[string]string)}
	for name, prop := range gjson.GetBytes(body, "properties").Map() {
		schema.PropertyIDs[name] = prop.Get("id").String()
		if prop.Get("type").String() == "title" {
			schema.TitleProperty = name
		}
	}

	if schema.TitleProperty == "" {
		return Schema{}, ErrNoTitleProperty
	}
	return schema, nil
}

// Validate checks that every required task property exists in the
// schema. Run once at startup so a misconfigured database fails before
// any records are touched.
func (s Schema) Validate() error {
	for _, name := range requiredProperties {
		if _, ok := s.PropertyIDs[name]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingProperty, name)
		}
	}
	return nil
}
