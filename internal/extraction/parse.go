package extraction

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/instylab/tasksync/internal/task"
)

var (
	arrayRE  = regexp.MustCompile(`(?s)\[.*\]`)
	objectRE = regexp.MustCompile(`(?s)\{[^{}]+\}`)
)

// ParseTaskJSON extracts task items from an LLM response. Models
// sometimes wrap JSON in markdown fences or surround it with prose, so
// parsing is tolerant: try the outermost JSON array first, then fall
// back to individual objects. Returns an empty slice when nothing
// parses; malformed model output is never an error.
func ParseTaskJSON(s string) []task.Raw {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if match := arrayRE.FindString(s); match != "" {
		var tasks []task.Raw
		if err := json.Unmarshal([]byte(match), &tasks); err == nil {
			return tasks
		}
	}

	// No parseable array: collect whatever standalone objects decode.
	var tasks []task.Raw
	for _, obj := range objectRE.FindAllString(s, -1) {
		var t task.Raw
		if err := json.Unmarshal([]byte(obj), &t); err != nil {
			continue
		}
		tasks = append(tasks, t)
	}
	if tasks == nil {
		return []task.Raw{}
	}
	return tasks
}
