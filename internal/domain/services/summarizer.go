package services

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fredcamaral/docuslide/internal/domain/entities"
)

// DefaultMaxPoints is the number of points returned when none is requested
const DefaultMaxPoints = 5

// minCandidateLength filters out fragments such as headings and list markers
const minCandidateLength = 10

// Score weights
const (
	leadBonus       = 3.0
	conclusionBonus = 2.0
	keywordBonus    = 2.0
	lengthUnit      = 50.0
)

var importanceKeywords = []string{
	"important", "key", "significant", "crucial", "primary", "conclusion",
	"therefore", "result", "essential", "critical", "main", "finding",
}

const boundaryMarker = '|'

type scoredSentence struct {
	text  string
	score float64
}

// Summarize ranks the sentences of text by a positional and keyword
// heuristic and returns the best maxPoints of them, each capped at
// charLimit characters. Sentences with equal scores keep their
// document order.
func Summarize(text string, maxPoints, charLimit int) []string {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	if charLimit <= 0 {
		charLimit = entities.DefaultCharLimit
	}

	candidates := SplitSentences(text)
	if len(candidates) == 0 {
		return []string{}
	}

	n := float64(len(candidates))
	scored := make([]scoredSentence, len(candidates))
	for i, sentence := range candidates {
		scored[i] = scoredSentence{text: sentence, score: scoreSentence(sentence, float64(i), n)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > maxPoints {
		scored = scored[:maxPoints]
	}

	points := make([]string, len(scored))
	for i, s := range scored {
		points[i] = entities.Truncate(s.text, charLimit)
	}
	return points
}

// SplitSentences breaks text after '.', '?' or '!' when the whitespace
// that follows (possibly none) is followed by an ASCII capital letter.
// A literal '|' in the input also acts as a boundary. Candidates are
// trimmed and those of 10 characters or fewer are dropped.
func SplitSentences(text string) []string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		b.WriteRune(r)
		i += size

		if r != '.' && r != '?' && r != '!' {
			continue
		}

		j := i
		for j < len(text) {
			ws, wsSize := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(ws) {
				break
			}
			j += wsSize
		}
		if j < len(text) && text[j] >= 'A' && text[j] <= 'Z' {
			b.WriteRune(boundaryMarker)
			i = j
		}
	}

	var sentences []string
	for _, part := range strings.Split(b.String(), string(boundaryMarker)) {
		part = strings.TrimSpace(part)
		if entities.Length(part) > minCandidateLength {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

func scoreSentence(sentence string, index, n float64) float64 {
	score := 0.0

	if index < 0.2*n {
		score += leadBonus
	}
	if index >= 0.8*n {
		score += conclusionBonus
	}

	lower := strings.ToLower(sentence)
	for _, keyword := range importanceKeywords {
		score += keywordBonus * float64(strings.Count(lower, keyword))
	}

	score += min(float64(entities.Length(sentence))/lengthUnit, 1)

	return score
}
