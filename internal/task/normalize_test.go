package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meetingDate = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func TestNormalizeDropsNamelessTasks(t *testing.T) {
	raws := []Raw{
		{Name: FlexString("")},
		{Name: FlexString("   ")},
		{}, // name absent entirely
		{Name: FlexString("실제 업무")},
	}

	tasks := Normalize(raws, meetingDate)

	require.Len(t, tasks, 1)
	assert.Equal(t, "실제 업무", tasks[0].Name)
}

func TestNormalizeVocabularies(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		want Task
	}{
		{
			name: "exact matches pass through",
			raw: Raw{
				Name:     FlexString("업무"),
				Field:    FlexString("AI"),
				Process:  FlexString("진행중"),
				Function: FlexString("버그수정"),
				Priority: FlexString("높음"),
			},
			want: Task{Field: "AI", Process: "진행중", Function: "버그수정", Priority: "높음"},
		},
		{
			name: "synonyms map case-insensitively",
			raw: Raw{
				Name:     FlexString("업무"),
				Field:    FlexString("ai"),
				Process:  FlexString("Planning"),
				Function: FlexString("BUGFIX"),
				Priority: FlexString("High"),
			},
			want: Task{Field: "AI", Process: "계획", Function: "버그수정", Priority: "높음"},
		},
		{
			name: "hallucinated values fall back to defaults",
			raw: Raw{
				Name:     FlexString("업무"),
				Field:    FlexString("뭔가 이상한 값"),
				Process:  FlexString("doing stuff"),
				Function: FlexString("???"),
				Priority: FlexString("urgent!!"),
			},
			want: Task{Field: "기타", Process: "계획", Function: "기타", Priority: "보통"},
		},
		{
			name: "absent fields fall back to defaults",
			raw:  Raw{Name: FlexString("업무")},
			want: Task{Field: "기타", Process: "계획", Function: "기타", Priority: "보통"},
		},
		{
			name: "long form status synonym",
			raw:  Raw{Name: FlexString("업무"), Process: FlexString("진행중입니다")},
			want: Task{Field: "기타", Process: "진행중", Function: "기타", Priority: "보통"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := Normalize([]Raw{tt.raw}, meetingDate)
			require.Len(t, tasks, 1)
			got := tasks[0]
			assert.Equal(t, tt.want.Field, got.Field)
			assert.Equal(t, tt.want.Process, got.Process)
			assert.Equal(t, tt.want.Function, got.Function)
			assert.Equal(t, tt.want.Priority, got.Priority)
		})
	}
}

func TestNormalizeProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress Flex
		want     int
	}{
		{"plain number", FlexNumber(42), 42},
		{"percent string", FlexString("50%"), 50},
		{"fraction", FlexString("9/13"), 69},
		{"fraction with spaces", FlexString(" 1 / 2 "), 50},
		{"decimal percent", FlexString("69.3%"), 69},
		{"clamped high", FlexNumber(150), 100},
		{"clamped low", FlexNumber(-5), 0},
		{"numeric string", FlexString("33"), 33},
		{"rounds half up", FlexString("1/8"), 13},
		{"zero denominator", FlexString("3/0"), 0},
		{"garbage", FlexString("almost done"), 0},
		{"absent", Flex{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := Normalize([]Raw{{Name: FlexString("업무"), Progress: tt.progress}}, meetingDate)
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.want, tasks[0].Progress)
			assert.GreaterOrEqual(t, tasks[0].Progress, 0)
			assert.LessOrEqual(t, tasks[0].Progress, 100)
		})
	}
}

func TestNormalizeDates(t *testing.T) {
	tests := []struct {
		name  string
		start Flex
		want  string
	}{
		{"iso date passes through", FlexString("2025-10-15"), "2025-10-15"},
		{"slash format", FlexString("2025/10/15"), "2025-10-15"},
		{"absent falls back to meeting date", Flex{}, "2025-09-01"},
		{"unparseable falls back to meeting date", FlexString("다음 주쯤"), "2025-09-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := Normalize([]Raw{{Name: FlexString("업무"), Start: tt.start}}, meetingDate)
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.want, tasks[0].Start)
		})
	}
}

func TestFlexDecodesLooseJSON(t *testing.T) {
	var raw Raw
	err := json.Unmarshal([]byte(`{
		"name": "업무",
		"progress": 75,
		"priority": null,
		"start": 20251015,
		"description": true
	}`), &raw)
	require.NoError(t, err)

	assert.Equal(t, "업무", raw.Name.String())

	n, isNum := raw.Progress.Number()
	assert.True(t, isNum)
	assert.Equal(t, 75.0, n)

	assert.False(t, raw.Priority.IsSet())
	assert.True(t, raw.Start.IsSet())
	assert.Equal(t, "true", raw.Description.String())
}

func TestNormalizeTrimsDescription(t *testing.T) {
	tasks := Normalize([]Raw{{
		Name:        FlexString("  업무  "),
		Description: FlexString("  상세 설명  "),
	}}, meetingDate)

	require.Len(t, tasks, 1)
	assert.Equal(t, "업무", tasks[0].Name)
	assert.Equal(t, "상세 설명", tasks[0].Description)
}
