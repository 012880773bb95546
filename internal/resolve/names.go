package resolve

import (
	"regexp"
	"strings"
)

// namePattern matches capitalized proper-noun sequences, optionally
// title-prefixed, up to three words long.
var namePattern = regexp.MustCompile(
	`\b(?:(?:Mr|Mrs|Ms|Dr|Prof)\.\s+|(?:Sir|Lady|Lord|Captain|Professor)\s+)?[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}\b`,
)

// titles are honorifics stripped before alias comparison
var titles = []string{"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "Sir", "Lady", "Lord", "Captain", "Professor"}

// nameStopwords are capitalized tokens that are never character names:
// sentence starters, pronouns, and structural words.
var nameStopwords = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "I": {}, "He": {}, "She": {}, "It": {},
	"We": {}, "You": {}, "They": {}, "But": {}, "And": {}, "Or": {}, "Nor": {},
	"Then": {}, "When": {}, "While": {}, "After": {}, "Before": {}, "Once": {},
	"There": {}, "Here": {}, "His": {}, "Her": {}, "Their": {}, "Its": {},
	"My": {}, "Your": {}, "Our": {}, "This": {}, "That": {}, "These": {},
	"Those": {}, "If": {}, "In": {}, "On": {}, "At": {}, "By": {}, "For": {},
	"With": {}, "From": {}, "As": {}, "So": {}, "Not": {}, "No": {}, "Yes": {},
	"Now": {}, "What": {}, "Who": {}, "Why": {}, "How": {}, "Where": {},
	"Chapter": {}, "Suddenly": {}, "Perhaps": {}, "Maybe": {}, "Still": {},
	"Even": {}, "Every": {}, "Everyone": {}, "Someone": {}, "Nothing": {},
	"Something": {}, "Later": {}, "Meanwhile": {}, "Outside": {}, "Inside": {},
}

// diminutives maps common short forms to their full given name.
// Used by alias merge rule (b) together with the co-attribution check.
var diminutives = map[string]string{
	"mike": "michael", "mikey": "michael",
	"tom": "thomas", "tommy": "thomas",
	"liz": "elizabeth", "beth": "elizabeth", "eliza": "elizabeth",
	"ellie": "eleanor", "nell": "eleanor",
	"bill": "william", "will": "william",
	"bob": "robert", "rob": "robert", "bobby": "robert",
	"sam": "samuel", "sammy": "samuel",
	"jim": "james", "jimmy": "james",
	"meg": "margaret", "maggie": "margaret", "peggy": "margaret",
	"rick": "richard", "dick": "richard",
	"kate": "katherine", "katie": "katherine", "kathy": "katherine",
	"jack": "john", "johnny": "john",
	"ed": "edward", "eddie": "edward", "ned": "edward",
	"tony": "anthony",
	"dan":  "daniel", "danny": "daniel",
	"steve": "steven",
	"sue":   "susan", "susie": "susan",
	"nick":  "nicholas",
	"alex":  "alexander",
	"chris": "christopher",
	"drew":  "andrew", "andy": "andrew",
	"joe":   "joseph", "joey": "joseph",
	"matt":  "matthew",
	"pete":  "peter",
	"ted":   "theodore", "teddy": "theodore",
	"tim":   "timothy", "timmy": "timothy",
	"jen":   "jennifer", "jenny": "jennifer",
	"becky": "rebecca",
	"abby":  "abigail",
	"hank":  "henry", "harry": "henry",
	"fred":  "frederick", "freddie": "frederick",
}

// CleanName normalizes a scanned name: trims punctuation and whitespace and
// strips a leading honorific.
func CleanName(name string) string {
	name = strings.Trim(name, " \t,.;:!?\"'")
	for _, title := range titles {
		if strings.HasPrefix(name, title+" ") {
			name = strings.TrimSpace(name[len(title)+1:])
			break
		}
	}
	return name
}

// isStopword reports whether the (single- or multi-word) candidate starts
// with a token that cannot open a character name.
func isStopword(name string) bool {
	first, _, _ := strings.Cut(name, " ")
	_, ok := nameStopwords[first]
	return ok
}

// wordSubstring reports whether short is a strict substring of long at word
// boundaries, e.g. "Sarah" within "Sarah Connor" but not "Sara" within "Sarah".
func wordSubstring(short, long string) bool {
	if short == long || len(short) >= len(long) {
		return false
	}
	sw := strings.Fields(short)
	lw := strings.Fields(long)
	if len(sw) >= len(lw) {
		return false
	}
	for start := 0; start+len(sw) <= len(lw); start++ {
		match := true
		for i, w := range sw {
			if !strings.EqualFold(lw[start+i], w) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// diminutiveOf reports whether one name's first word is a known short form
// of the other's.
func diminutiveOf(a, b string) bool {
	fa := strings.ToLower(firstWord(a))
	fb := strings.ToLower(firstWord(b))
	return diminutives[fa] == fb || diminutives[fb] == fa
}

func firstWord(s string) string {
	first, _, _ := strings.Cut(s, " ")
	return first
}
