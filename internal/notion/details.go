package notion

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// TaskDetail is a full task row read back from the database, used by
// the meeting-note generator.
type TaskDetail struct {
	Name        string
	Field       string
	Process     string
	Function    string
	Priority    string
	Start       string
	End         string
	Description string
	Progress    int
}

// QueryTaskDetails returns every task in the database with its full
// property set. Query results key properties by name, so the schema's
// property names are used directly.
func (c *Client) QueryTaskDetails(ctx context.Context, databaseID string, schema Schema) ([]TaskDetail, error) {
	body, err := c.do(ctx, http.MethodPost, "/v1/databases/"+databaseID+"/query", map[string]any{})
	if err != nil {
		return nil, err
	}

	var details []TaskDetail
	for _, page := range gjson.GetBytes(body, "results").Array() {
		props := page.Get("properties").Map()
		details = append(details, TaskDetail{
			Name:        props[schema.TitleProperty].Get("title.0.plain_text").String(),
			Field:       props["field"].Get("select.name").String(),
			Process:     props["process"].Get("select.name").String(),
			Function:    props["function"].Get("select.name").String(),
			Priority:    props["priority"].Get("select.name").String(),
			Start:       props["start"].Get("date.start").String(),
			End:         props["end"].Get("date.start").String(),
			Description: richText(props["description"]),
			Progress:    int(props["progress"].Get("number").Int()),
		})
	}
	return details, nil
}

func richText(prop gjson.Result) string {
	var sb strings.Builder
	for _, rt := range prop.Get("rich_text").Array() {
		sb.WriteString(rt.Get("plain_text").String())
	}
	return sb.String()
}
