package arena

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ahrav/go-arena/internal/domain"
)

// judgeResponse is the expected JSON shape of a judge's reply.
// Results is positionally aligned to the competitor listing order:
// Results[i] is the rank assigned to competitor i+1.
type judgeResponse struct {
	Results []int `json:"results"`
}

// ExtractJSON locates the first well-formed JSON object within a judge
// response. Judges routinely wrap their output in markdown code fences
// or surround it with commentary, so extraction scans for brace-matched
// object boundaries rather than requiring the whole response to be pure
// JSON. It returns the empty string when no object is found.
//
// Extraction is deliberately separate from validation so each stage can
// be tested without live model output.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)

	// Prefer an explicit ```json fence when present.
	if idx := strings.Index(response, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
	}

	// Generic code fence, possibly with a language identifier line.
	if idx := strings.Index(response, "```"); idx != -1 {
		start := idx + 3
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			candidate := strings.TrimSpace(response[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	// Fall back to scanning for brace-matched object boundaries,
	// ignoring braces inside JSON strings.
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return response[start : i+1]
				}
			}
		}
	}

	return ""
}

// ParseRanking recovers a structured ranking from raw judge output.
// The competitors slice is the fixed listing order established by the
// prompt builder; the judge's results array is zipped against it
// positionally, producing entries sorted by rank ascending.
//
// Every failure — no JSON found, malformed JSON, missing results, wrong
// length, duplicate or out-of-range values — wraps
// domain.ErrInvalidJudgeOutput so the judging round can exclude the
// judge without aborting the run.
func ParseRanking(judge, response string, competitors []string) (domain.JudgeRanking, error) {
	jsonStr := ExtractJSON(response)
	if jsonStr == "" {
		return domain.JudgeRanking{}, fmt.Errorf("%w: no JSON object found in response (%d chars)",
			domain.ErrInvalidJudgeOutput, len(response))
	}

	var parsed judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return domain.JudgeRanking{}, fmt.Errorf("%w: malformed JSON: %v", domain.ErrInvalidJudgeOutput, err)
	}
	if parsed.Results == nil {
		return domain.JudgeRanking{}, fmt.Errorf("%w: missing %q array", domain.ErrInvalidJudgeOutput, "results")
	}

	n := len(competitors)
	if len(parsed.Results) != n {
		return domain.JudgeRanking{}, fmt.Errorf("%w: got %d ranks, want %d",
			domain.ErrInvalidJudgeOutput, len(parsed.Results), n)
	}

	seen := make(map[int]bool, n)
	entries := make([]domain.RankedEntry, 0, n)
	for i, rank := range parsed.Results {
		if rank < 1 || rank > n {
			return domain.JudgeRanking{}, fmt.Errorf("%w: rank %d out of range [1, %d]",
				domain.ErrInvalidJudgeOutput, rank, n)
		}
		if seen[rank] {
			return domain.JudgeRanking{}, fmt.Errorf("%w: duplicate rank %d",
				domain.ErrInvalidJudgeOutput, rank)
		}
		seen[rank] = true
		entries = append(entries, domain.RankedEntry{Rank: rank, Competitor: competitors[i]})
	}

	sort.Slice(entries, func(a, b int) bool { return entries[a].Rank < entries[b].Rank })

	ranking := domain.JudgeRanking{Judge: judge, Entries: entries}
	if err := ranking.Validate(competitors); err != nil {
		return domain.JudgeRanking{}, fmt.Errorf("%w: %v", domain.ErrInvalidJudgeOutput, err)
	}
	return ranking, nil
}
