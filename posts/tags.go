package posts

import (
	"encoding/json"
	"strings"
)

// NormalizeTags trims each candidate, drops entries that are empty after
// trimming, and lower-cases the rest. Insertion order is preserved and
// duplicates are not collapsed. Normalizing an already-normalized slice
// returns an equal slice.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		tags = append(tags, strings.ToLower(t))
	}
	return tags
}

// TagList accepts either a JSON array of strings or a single comma-delimited
// string. The blog's post form submits tags as one comma-separated field.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = strings.Split(s, ",")
	return nil
}
