package drafter

import (
	"fmt"
	"strings"

	"github.com/mentorled/fellowtrack/internal/domain/model"
	"github.com/mentorled/fellowtrack/internal/domain/warning"
)

const firstWarningSystem = `You draft formal first warnings for fellows in a cohort
program who have fallen behind. The tone is firm but supportive: name the
specific concerns, set concrete improvement requirements, and make clear the
program wants the fellow to succeed. Respond with a single JSON object and
nothing else, using exactly these keys:
{"message": "...", "tone": "...", "key_points": ["..."], "requirements": ["..."], "timeline": "..."}
The message must be a complete, ready-to-send text of at least 200 characters.`

const finalWarningSystem = `You draft formal final warnings for fellows in a cohort
program who did not improve after a first warning. The tone is serious and
unambiguous: state that this is the last opportunity before removal, reference
the earlier warning, and give precise requirements with a short deadline.
Respond with a single JSON object and nothing else, using exactly these keys:
{"message": "...", "tone": "...", "key_points": ["..."], "requirements": ["..."], "timeline": "..."}
The message must be a complete, ready-to-send text of at least 200 characters.`

func systemPrompt(level model.WarningLevel) string {
	if level == model.WarningFinal {
		return finalWarningSystem
	}
	return firstWarningSystem
}

// userPrompt assembles the evidence the generator needs: identity,
// triggering assessment, and for final warnings the prior warning.
func userPrompt(req warning.DraftRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fellow: %s (%s)\n", req.FellowName, req.Role)
	fmt.Fprintf(&b, "Warnings issued so far: %d\n", req.WarningsCount)

	if a := req.Assessment; a != nil {
		fmt.Fprintf(&b, "Current risk: %.2f (%s), recommended action %s, assessed week %d\n",
			a.RiskScore, a.RiskLevel, a.RecommendedAction, a.Week)
	}
	if len(req.Concerns) > 0 {
		b.WriteString("Concerns:\n")
		for _, c := range req.Concerns {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	if prev := req.PreviousWarning; prev != nil {
		b.WriteString("Previous warning:\n")
		if prev.IssuedAt != nil {
			fmt.Fprintf(&b, "- issued %s\n", prev.IssuedAt.Format("2006-01-02"))
		}
		for _, r := range prev.Requirements {
			fmt.Fprintf(&b, "- required: %s\n", r)
		}
		if prev.Timeline != "" {
			fmt.Fprintf(&b, "- timeline given: %s\n", prev.Timeline)
		}
	}
	b.WriteString("Draft the warning now.")
	return b.String()
}
