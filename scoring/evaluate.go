package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"certquiz/models"
)

var selectUpToPattern = regexp.MustCompile(`(?i)select up to (\d+)`)

// tokenGroup is the set of token spellings that all prove selection of the
// same correct choice: the option's persisted ID, its 1-based position, and
// its text (legacy answer lists store texts).
type tokenGroup map[string]struct{}

// Evaluate decides whether the submitted tokens answer the question
// correctly. It never fails: malformed question data degrades into the
// documented tolerant fallbacks, and malformed submissions score false.
//
// Both token encodings (option ID and 1-based index) are accepted
// simultaneously; each can only prove selection of its own option, so no
// client-mode detection is needed.
func Evaluate(q *models.Question, tokens []string) bool {
	if q == nil {
		return false
	}
	tokens = dedupTokens(cleanTokens(tokens))

	groups := correctGroups(q)
	if len(groups) == 0 {
		// No correct option and no answer list: the question carries no key
		// at all. Scored by the keyless tolerance policy.
		return evaluateKeyless(q.Text, tokens)
	}
	if len(tokens) == 0 {
		return false
	}

	if q.MultiAnswer {
		// Exact-set matching: every correct choice selected and nothing
		// else. Stray tokens match no group and fail the count check.
		return coversAll(groups, tokens) && len(tokens) == len(groups)
	}

	if answers := distinctAnswers(q.CorrectAnswers); len(answers) > 1 {
		// Flag unset but several canonical answers recorded. Legacy shape:
		// match against the answer set without requiring all of them, but
		// never accept more selections than there are distinct answers.
		for _, token := range tokens {
			if !matchesAny(groups, token) {
				return false
			}
		}
		return len(tokens) <= len(answers)
	}

	return len(tokens) == 1 && matchesAny(groups, tokens[0])
}

// ResolveOption maps one submitted token back to the option it selects, for
// recording on the outcome row. Returns nil when the token resolves to no
// stored option.
func ResolveOption(q *models.Question, token string) *uint {
	token = strings.TrimSpace(token)
	if q == nil || token == "" {
		return nil
	}
	for i := range q.Options {
		opt := &q.Options[i]
		if token == strconv.FormatUint(uint64(opt.ID), 10) ||
			token == strconv.Itoa(i+1) ||
			token == strings.TrimSpace(opt.Text) {
			id := opt.ID
			return &id
		}
	}
	return nil
}

// correctGroups builds one token group per correct choice. When no option is
// flagged correct it falls back to the canonical answer list, one group per
// distinct answer text.
func correctGroups(q *models.Question) []tokenGroup {
	var groups []tokenGroup
	for i := range q.Options {
		opt := &q.Options[i]
		if !opt.IsCorrect {
			continue
		}
		group := tokenGroup{
			strconv.FormatUint(uint64(opt.ID), 10): {},
			strconv.Itoa(i + 1):                    {},
		}
		if text := strings.TrimSpace(opt.Text); text != "" {
			group[text] = struct{}{}
		}
		groups = append(groups, group)
	}
	if len(groups) > 0 {
		return groups
	}

	for _, answer := range distinctAnswers(q.CorrectAnswers) {
		groups = append(groups, tokenGroup{answer: {}})
	}
	return groups
}

// evaluateKeyless scores questions whose authored data carries no answer key.
// "select up to N" questions accept any selection of 1..N choices; anything
// else accepts any non-empty selection. A tolerance for malformed authoring,
// not a scoring guarantee.
func evaluateKeyless(text string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	if m := selectUpToPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return len(tokens) <= n
		}
	}
	return true
}

func matchesAny(groups []tokenGroup, token string) bool {
	for _, group := range groups {
		if _, ok := group[token]; ok {
			return true
		}
	}
	return false
}

func coversAll(groups []tokenGroup, tokens []string) bool {
	for _, group := range groups {
		matched := false
		for _, token := range tokens {
			if _, ok := group[token]; ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

func distinctAnswers(answers []string) []string {
	seen := make(map[string]struct{}, len(answers))
	out := make([]string, 0, len(answers))
	for _, answer := range answers {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		if _, dup := seen[answer]; dup {
			continue
		}
		seen[answer] = struct{}{}
		out = append(out, answer)
	}
	return out
}
