package scoring

// SubmittedAnswer is one test-taker selection for a single question, as it
// arrives on the wire. Each token is either an option's persisted ID or its
// 1-based position in the question's option list, both rendered as strings;
// historical clients produce either encoding.
type SubmittedAnswer struct {
	QuestionID string
	Tokens     []string
}

// Normalize collapses duplicate submissions. When several entries target the
// same question, the one with the longest token list survives (ties keep the
// first encountered) so a complete resubmission supersedes a partial one.
// Within each surviving answer, repeated tokens are dropped keeping
// first-occurrence order. Question order is otherwise preserved. Pure; its
// own output is a fixed point.
func Normalize(raw []SubmittedAnswer) []SubmittedAnswer {
	index := make(map[string]int, len(raw))
	out := make([]SubmittedAnswer, 0, len(raw))
	for _, ans := range raw {
		if at, seen := index[ans.QuestionID]; seen {
			if len(ans.Tokens) > len(out[at].Tokens) {
				out[at].Tokens = ans.Tokens
			}
			continue
		}
		index[ans.QuestionID] = len(out)
		out = append(out, ans)
	}

	for i := range out {
		out[i].Tokens = dedupTokens(out[i].Tokens)
	}
	return out
}

func dedupTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
