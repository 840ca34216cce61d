package textclf

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// TfidfVectorizer reproduces the transform step of a fitted scikit-learn
// TfidfVectorizer from its exported vocabulary and idf weights.
type TfidfVectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	lowercase   bool
	minN, maxN  int
	stopWords   map[string]struct{}
	sublinearTF bool
	binary      bool
	norm        string
	pattern     *regexp.Regexp
	numFeatures int
}

// tfidfDoc is the on-disk shape of a "tfidf" vectorizer artifact.
type tfidfDoc struct {
	Type         string          `json:"type"`
	Vocabulary   map[string]int  `json:"vocabulary"`
	IDF          []float64       `json:"idf"`
	Lowercase    *bool           `json:"lowercase"`
	NgramRange   []int           `json:"ngram_range"`
	StopWords    []string        `json:"stop_words"`
	SublinearTF  bool            `json:"sublinear_tf"`
	Binary       bool            `json:"binary"`
	Norm         json.RawMessage `json:"norm"`
	TokenPattern string          `json:"token_pattern"`
}

func newTfidfVectorizer(doc tfidfDoc) (*TfidfVectorizer, error) {
	if len(doc.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrShape)
	}
	v := &TfidfVectorizer{
		vocabulary:  doc.Vocabulary,
		idf:         doc.IDF,
		lowercase:   true,
		minN:        1,
		maxN:        1,
		sublinearTF: doc.SublinearTF,
		binary:      doc.Binary,
		norm:        "l2",
	}
	if doc.Lowercase != nil {
		v.lowercase = *doc.Lowercase
	}
	if len(doc.Norm) != 0 {
		// An explicit null disables normalization.
		if string(doc.Norm) == "null" {
			v.norm = ""
		} else {
			var norm string
			if err := json.Unmarshal(doc.Norm, &norm); err != nil {
				return nil, fmt.Errorf("norm: %w", err)
			}
			v.norm = strings.ToLower(norm)
		}
	}
	switch v.norm {
	case "l1", "l2", "", "none":
	default:
		return nil, fmt.Errorf("unsupported norm %q", v.norm)
	}
	if len(doc.NgramRange) != 0 {
		if len(doc.NgramRange) != 2 || doc.NgramRange[0] < 1 || doc.NgramRange[1] < doc.NgramRange[0] {
			return nil, fmt.Errorf("%w: invalid ngram_range %v", ErrShape, doc.NgramRange)
		}
		v.minN, v.maxN = doc.NgramRange[0], doc.NgramRange[1]
	}
	if len(doc.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(doc.StopWords))
		for _, w := range doc.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}
	if doc.TokenPattern != "" {
		// RE2 has no (?u) flag; unicode classes are always available.
		p := strings.ReplaceAll(doc.TokenPattern, "(?u)", "")
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("token_pattern: %w", err)
		}
		if re.NumSubexp() > 1 {
			return nil, fmt.Errorf("token_pattern: more than one capturing group")
		}
		v.pattern = re
	}
	for term, col := range doc.Vocabulary {
		if col < 0 {
			return nil, fmt.Errorf("%w: negative column for term %q", ErrShape, term)
		}
		if col+1 > v.numFeatures {
			v.numFeatures = col + 1
		}
	}
	if len(v.idf) != 0 && len(v.idf) != v.numFeatures {
		return nil, fmt.Errorf("%w: idf has %d weights, vocabulary spans %d columns", ErrShape, len(v.idf), v.numFeatures)
	}
	return v, nil
}

// NumFeatures implements Vectorizer.
func (v *TfidfVectorizer) NumFeatures() int { return v.numFeatures }

// Transform implements Vectorizer.
func (v *TfidfVectorizer) Transform(text string) SparseVector {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	tokens := v.tokenize(text)
	if v.stopWords != nil {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, stop := v.stopWords[t]; !stop {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	counts := make(map[int]float64)
	for _, term := range v.ngrams(tokens) {
		if col, ok := v.vocabulary[term]; ok {
			counts[col]++
		}
	}

	out := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		out.Indices = append(out.Indices, col)
	}
	sort.Ints(out.Indices)
	for _, col := range out.Indices {
		tf := counts[col]
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if len(v.idf) != 0 {
			tf *= v.idf[col]
		}
		out.Values = append(out.Values, tf)
	}
	out.normalize(v.norm)
	return out
}

func (v *TfidfVectorizer) tokenize(text string) []string {
	if v.pattern == nil {
		return wordTokens(text)
	}
	if v.pattern.NumSubexp() == 1 {
		matches := v.pattern.FindAllStringSubmatch(text, -1)
		out := make([]string, 0, len(matches))
		for _, m := range matches {
			out = append(out, m[1])
		}
		return out
	}
	return v.pattern.FindAllString(text, -1)
}

// ngrams expands tokens into the configured word n-gram range.
func (v *TfidfVectorizer) ngrams(tokens []string) []string {
	if v.maxN == 1 {
		return tokens
	}
	var out []string
	minN := v.minN
	if minN == 1 {
		out = append(out, tokens...)
		minN = 2
	}
	for n := minN; n <= v.maxN && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// wordTokens splits text into runs of two or more letters, numbers or
// underscores, matching the default scikit-learn token pattern. Numbers
// include numeric symbols such as ½ and Ⅲ; combining marks are separators.
func wordTokens(text string) []string {
	var (
		out   []string
		start = -1
		runes int
	)
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			out = append(out, text[start:end])
		}
		start, runes = -1, 0
	}
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return out
}
