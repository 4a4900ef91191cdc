// Package note renders a weekly meeting-note draft in Markdown from
// the tasks of one work area.
package note

import (
	"fmt"
	"strings"
	"time"

	"github.com/instylab/tasksync/internal/notion"
)

// Generate renders the draft for field. Tasks with progress are listed
// as updates, tasks without as new work, followed by an empty
// discussion section for the meeting itself.
func Generate(field string, tasks []notion.TaskDetail, today time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s 팀 주간 회의록 초안 (%s)\n\n", field, today.Format("2006-01-02"))

	sb.WriteString("#### 업데이트 된 업무\n> \n\n")
	for _, t := range tasks {
		if t.Progress > 0 {
			writeTask(&sb, t, "업데이트 사항")
		}
	}

	var hasNew bool
	for _, t := range tasks {
		if t.Progress == 0 {
			hasNew = true
			break
		}
	}
	if hasNew {
		sb.WriteString("---\n\n")
		sb.WriteString("#### 신규 업무\n> 이번 주 새로 생성된 업무 항목\n\n")
		for _, t := range tasks {
			if t.Progress == 0 {
				writeTask(&sb, t, "action")
			}
		}
	}

	sb.WriteString("#### 추가논의 사항\n")
	return sb.String()
}

func writeTask(sb *strings.Builder, t notion.TaskDetail, detailLabel string) {
	fmt.Fprintf(sb, "- **%s**\n", t.Name)
	fmt.Fprintf(sb, "  - process: %s\n", t.Process)
	fmt.Fprintf(sb, "  - priority: %s\n", t.Priority)
	fmt.Fprintf(sb, "  - start: %s\n", t.Start)
	fmt.Fprintf(sb, "  - end: %s\n", t.End)
	fmt.Fprintf(sb, "  - progress: %d\n", t.Progress)
	fmt.Fprintf(sb, "  - %s:\n    - %s\n\n", detailLabel, t.Description)
}

// FilterByField keeps the tasks belonging to one work area.
func FilterByField(tasks []notion.TaskDetail, field string) []notion.TaskDetail {
	var filtered []notion.TaskDetail
	for _, t := range tasks {
		if t.Field == field {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
