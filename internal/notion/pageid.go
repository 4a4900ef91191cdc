package notion

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
)

// ErrNoPageIDs indicates no Notion page id could be found in the text.
var ErrNoPageIDs = errors.New("no notion page id found")

var pageIDRE = regexp.MustCompile(`[0-9a-fA-F]{32}`)

// ParsePageIDs finds every 32-hex Notion page id in text (IDs embedded
// in URLs included) and returns them in canonical dashed UUID form.
func ParsePageIDs(text string) ([]string, error) {
	matches := pageIDRE.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil, ErrNoPageIDs
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		u, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, u.String())
	}
	if len(ids) == 0 {
		return nil, ErrNoPageIDs
	}
	return ids, nil
}
