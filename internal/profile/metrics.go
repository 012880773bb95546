package profile

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ramckay/voiceloom/internal/model"
)

// Strong informal markers that push the formality index toward 0
var informalWords = map[string]struct{}{
	"yo": {}, "sup": {}, "dude": {}, "dudes": {}, "bro": {}, "bruh": {},
	"gonna": {}, "wanna": {}, "gotta": {}, "nah": {}, "yeah": {}, "yep": {},
	"yup": {}, "whatever": {}, "chill": {}, "awesome": {}, "totally": {},
	"kinda": {}, "sorta": {}, "lemme": {}, "gimme": {}, "ain't": {},
	"cool": {}, "hey": {}, "ugh": {}, "jeez": {}, "whoa": {}, "omg": {},
	"lol": {}, "dunno": {}, "huh": {},
}

// Strong formal markers that push the formality index toward 1
var formalWords = map[string]struct{}{
	"indeed": {}, "therefore": {}, "thus": {}, "hence": {}, "furthermore": {},
	"moreover": {}, "henceforth": {}, "consequently": {}, "accordingly": {},
	"hitherto": {}, "whereupon": {}, "quite": {}, "rather": {}, "shall": {},
	"ought": {}, "propose": {}, "suggest": {}, "ascertain": {}, "determine": {},
	"examine": {}, "proceed": {}, "certainly": {}, "undoubtedly": {},
	"respectfully": {}, "precisely": {}, "nevertheless": {}, "however": {},
	"nonetheless": {}, "perhaps": {}, "evidently": {},
}

var contractionRE = regexp.MustCompile(
	`(?i)\b(?:don't|can't|won't|isn't|aren't|wasn't|weren't|hasn't|haven't|` +
		`hadn't|doesn't|didn't|couldn't|shouldn't|wouldn't|i'm|i'll|i've|i'd|` +
		`you're|you'll|you've|you'd|he's|she's|it's|we're|we'll|we've|we'd|` +
		`they're|they'll|they've|they'd|what's|that's|there's|who's|let's|` +
		`gonna|wanna|gotta)\b`,
)

// ticStopwords are too common to ever count as a personal verbal tic
var ticStopwords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "not": {}, "you": {},
	"are": {}, "was": {}, "that": {}, "this": {}, "with": {}, "have": {},
	"what": {}, "your": {}, "will": {},
}

// coordinating conjunctions counted as clause joints
var clauseConjunctions = map[string]struct{}{
	"and": {}, "but": {}, "or": {}, "so": {}, "yet": {}, "nor": {},
}

// tokenize lowercases and strips surrounding punctuation, keeping internal
// apostrophes so contractions survive
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, `.,!?;:"'()[]—-“”‘’`)
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// splitSentences breaks a dialogue line on terminal punctuation
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				sentences = append(sentences, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// WordLength returns the mean word length of the line, a proxy for
// syllable complexity.
func WordLength(text string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += len(w)
	}
	return float64(total) / float64(len(words))
}

// ClauseCount returns the mean clause count per sentence of the line.
// A clause joint is a comma, semicolon, or coordinating conjunction.
func ClauseCount(text string) float64 {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range sentences {
		clauses := 1
		clauses += strings.Count(s, ",") + strings.Count(s, ";")
		for _, w := range tokenize(s) {
			if _, ok := clauseConjunctions[w]; ok {
				clauses++
			}
		}
		total += float64(clauses)
	}
	return total / float64(len(sentences))
}

// Formality returns an index in [0,1]: 0 very informal, 1 very formal,
// 0.5 neutral. Built from strong marker words and a mild contraction penalty.
func Formality(text string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0.5
	}
	score := 0.5
	for _, w := range words {
		if _, ok := informalWords[w]; ok {
			score -= 0.25
		}
		if _, ok := formalWords[w]; ok {
			score += 0.25
		}
	}
	score -= 0.10 * float64(len(contractionRE.FindAllString(text, -1)))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// TicDensity returns the fraction of the line's tokens (and adjacent bigrams)
// that hit the character's tic table.
func TicDensity(text string, tics map[string]struct{}) float64 {
	words := tokenize(text)
	if len(words) == 0 || len(tics) == 0 {
		return 0
	}
	hits := 0
	for i, w := range words {
		if _, ok := tics[w]; ok {
			hits++
		}
		if i+1 < len(words) {
			if _, ok := tics[w+" "+words[i+1]]; ok {
				hits++
			}
		}
	}
	return float64(hits) / float64(len(words))
}

// LineMetric computes the per-line metric for one dimension. The scorer and
// the profiler must agree on these values, so both call through here.
func LineMetric(d model.Dimension, text string, tics map[string]struct{}) float64 {
	switch d {
	case model.DimVocabulary:
		return WordLength(text)
	case model.DimSentence:
		return ClauseCount(text)
	case model.DimTics:
		return TicDensity(text, tics)
	case model.DimFormality:
		return Formality(text)
	}
	return 0
}

// DetectTics finds repeated words and bigrams that form verbal tics:
// anything appearing in at least 15% of the character's lines (minimum 2).
func DetectTics(lines []string, max int) []model.TicToken {
	wordCounts := make(map[string]int)
	bigramCounts := make(map[string]int)

	for _, line := range lines {
		var kept []string
		for _, w := range tokenize(line) {
			if len(w) > 2 {
				kept = append(kept, w)
			}
		}
		seenW := make(map[string]struct{})
		for _, w := range kept {
			if _, dup := seenW[w]; dup {
				continue
			}
			seenW[w] = struct{}{}
			wordCounts[w]++
		}
		seenB := make(map[string]struct{})
		for i := 0; i+1 < len(kept); i++ {
			b := kept[i] + " " + kept[i+1]
			if _, dup := seenB[b]; dup {
				continue
			}
			seenB[b] = struct{}{}
			bigramCounts[b]++
		}
	}

	threshold := len(lines) * 15 / 100
	if threshold < 2 {
		threshold = 2
	}

	var tics []model.TicToken
	for w, n := range wordCounts {
		if n < threshold {
			continue
		}
		if _, stop := ticStopwords[w]; stop {
			continue
		}
		tics = append(tics, model.TicToken{Token: w, Count: n})
	}
	for b, n := range bigramCounts {
		if n >= threshold {
			tics = append(tics, model.TicToken{Token: b, Count: n})
		}
	}

	// Deterministic: count descending, then token ascending
	sort.Slice(tics, func(i, j int) bool {
		if tics[i].Count != tics[j].Count {
			return tics[i].Count > tics[j].Count
		}
		return tics[i].Token < tics[j].Token
	})
	if len(tics) > max {
		tics = tics[:max]
	}
	return tics
}

// TicSet converts a tic table to the lookup set used by TicDensity
func TicSet(tics []model.TicToken) map[string]struct{} {
	set := make(map[string]struct{}, len(tics))
	for _, t := range tics {
		set[t.Token] = struct{}{}
	}
	return set
}
