package predictor

import (
	"strings"

	"mbtid/pkg/types"
)

// NumClasses is the number of personality types the classifier distinguishes.
const NumClasses = 16

var labelTable = [NumClasses]string{
	"ENFJ (Extroversion, Intuition, Feeling, Judging)",
	"ENFP (Extroversion, Intuition, Feeling, Perceiving)",
	"ENTJ (Extroversion, Intuition, Thinking, Judging)",
	"ENTP (Extroversion, Intuition, Thinking, Perceiving)",
	"ESFJ (Extroversion, Sensing, Feeling, Judging)",
	"ESFP (Extroversion, Sensing, Feeling, Perceiving)",
	"ESTJ (Extroversion, Sensing, Thinking, Judging)",
	"ESTP (Extroversion, Sensing, Thinking, Perceiving)",
	"INFJ (Introversion, Intuition, Feeling, Judging)",
	"INFP (Introversion, Intuition, Feeling, Perceiving)",
	"INTJ (Introversion, Intuition, Thinking, Judging)",
	"INTP (Introversion, Intuition, Thinking, Perceiving)",
	"ISFJ (Introversion, Sensing, Feeling, Judging)",
	"ISFP (Introversion, Sensing, Feeling, Perceiving)",
	"ISTJ (Introversion, Sensing, Thinking, Judging)",
	"ISTP (Introversion, Sensing, Thinking, Perceiving)",
}

// Label returns the human-readable label for a class index.
func Label(idx int) (string, bool) {
	if idx < 0 || idx >= NumClasses {
		return "", false
	}
	return labelTable[idx], true
}

// Labels returns a copy of the label table in index order.
func Labels() []string {
	out := make([]string, NumClasses)
	copy(out, labelTable[:])
	return out
}

// Code returns the four-letter type code for a class index.
func Code(idx int) (string, bool) {
	l, ok := Label(idx)
	if !ok {
		return "", false
	}
	return l[:4], true
}

// IndexOfCode resolves a type code ("INTP") or a full label to its class index.
// Matching is case-insensitive on the leading four letters.
func IndexOfCode(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	if len(s) > 4 && s[4] != ' ' {
		return 0, false
	}
	code := strings.ToUpper(s[:4])
	for i, l := range labelTable {
		if l[:4] == code {
			return i, true
		}
	}
	return 0, false
}

// LabelEntries returns the label table as API entries.
func LabelEntries() []types.Label {
	out := make([]types.Label, NumClasses)
	for i, l := range labelTable {
		out[i] = types.Label{Index: i, Code: l[:4], Label: l}
	}
	return out
}
