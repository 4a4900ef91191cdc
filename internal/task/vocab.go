package task

import "strings"

// vocabulary is a closed value set with a synonym table and a default.
// Kept as data so the sets can grow without touching coercion logic.
type vocabulary struct {
	valid    map[string]struct{}
	synonyms map[string]string // lowercase synonym -> canonical
	fallback string
}

func newVocabulary(fallback string, valid []string, synonyms map[string]string) vocabulary {
	set := make(map[string]struct{}, len(valid))
	for _, v := range valid {
		set[v] = struct{}{}
	}
	return vocabulary{valid: set, synonyms: synonyms, fallback: fallback}
}

// coerce maps a free-text value into the vocabulary: exact match first,
// then the case-insensitive synonym table, then the default.
func (v vocabulary) coerce(value string) string {
	value = strings.TrimSpace(value)
	if _, ok := v.valid[value]; ok {
		return value
	}
	if canonical, ok := v.synonyms[strings.ToLower(value)]; ok {
		if _, valid := v.valid[canonical]; valid {
			return canonical
		}
	}
	return v.fallback
}

// Closed vocabularies of the task database. Values are the Korean
// select options of the backing schema.
var (
	fieldVocab = newVocabulary("기타",
		[]string{"개발", "디자인", "기획", "마케팅", "운영", "기타", "AI", "BE", "FE"},
		map[string]string{
			"ai":       "AI",
			"be":       "BE",
			"fe":       "FE",
			"backend":  "BE",
			"frontend": "FE",
			"design":   "디자인",
			"ops":      "운영",
		})

	processVocab = newVocabulary("계획",
		[]string{"계획", "진행중", "완료", "보류", "취소"},
		map[string]string{
			"진행중입니다": "진행중",
			"planning": "계획",
			"done":     "완료",
		})

	functionVocab = newVocabulary("기타",
		[]string{"신규개발", "버그수정", "개선", "유지보수", "분석", "기타"},
		map[string]string{
			"bugfix":   "버그수정",
			"improve":  "개선",
			"analysis": "분석",
		})

	priorityVocab = newVocabulary("보통",
		[]string{"높음", "보통", "낮음"},
		map[string]string{
			"high":   "높음",
			"medium": "보통",
			"low":    "낮음",
		})
)
