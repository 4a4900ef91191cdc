package notion

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// PageText collects the plain text of a page by walking its block tree
// depth-first. Child pagination is followed; nested blocks are visited
// recursively.
func (c *Client) PageText(ctx context.Context, pageID string) (string, error) {
	var texts []string
	if err := c.walkBlocks(ctx, pageID, &texts); err != nil {
		return "", err
	}
	return strings.Join(texts, "\n"), nil
}

func (c *Client) walkBlocks(ctx context.Context, blockID string, texts *[]string) error {
	cursor := ""
	for {
		path := "/v1/blocks/" + blockID + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + cursor
		}

		body, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}

		for _, block := range gjson.GetBytes(body, "results").Array() {
			if t := blockText(block); t != "" {
				*texts = append(*texts, t)
			}
			if block.Get("has_children").Bool() {
				if err := c.walkBlocks(ctx, block.Get("id").String(), texts); err != nil {
					return err
				}
			}
		}

		if !gjson.GetBytes(body, "has_more").Bool() {
			return nil
		}
		cursor = gjson.GetBytes(body, "next_cursor").String()
	}
}

// blockText flattens one block's rich text. Block payloads are keyed by
// their own type name, so the type string doubles as the lookup path.
func blockText(block gjson.Result) string {
	blockType := block.Get("type").String()
	if blockType == "" {
		return ""
	}

	var sb strings.Builder
	for _, rt := range block.Get(blockType).Get("rich_text").Array() {
		sb.WriteString(rt.Get("plain_text").String())
	}
	text := sb.String()
	if text == "" {
		return ""
	}

	switch blockType {
	case "heading_1", "heading_2", "heading_3":
		return "# " + text
	default:
		return text
	}
}
