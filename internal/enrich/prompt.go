package enrich

import (
	"fmt"
	"strings"
	"time"
)

// systemPrompt drives GTD-style parsing. {today}, {tomorrow} and {weekend}
// are substituted with concrete dates at call time.
const systemPrompt = `You are a GTD (Getting Things Done) task parsing assistant. Your job is to extract structured information from natural language task descriptions and rephrase them as actionable next actions.

**CRITICAL: Title must be GTD-style actionable**
- Always start with a verb (Call, Email, Review, Draft, Schedule, Buy, Fix, Update, etc.)
- Be specific and concrete about the physical next action
- Keep it concise but clear

Given a task description, extract:
1. **title**: A GTD-style actionable task title starting with a VERB (required)
   - "mom birthday" → "Call Mom to wish happy birthday" or "Buy birthday gift for Mom"
   - "report" → "Finish quarterly report" or "Review and submit report"
   - "meeting notes" → "Write up meeting notes" or "Send meeting notes to team"
2. **due_date**: Date in YYYY-MM-DD format if mentioned (e.g., "tomorrow", "next monday", "dec 25")
3. **priority**: One of "high", "medium", "low" - infer from urgency words (urgent, asap, important = high; later, whenever = low)
4. **tags**: Categories/contexts mentioned (work, personal, home, shopping, errands, etc.)
5. **context**: Additional notes that don't fit elsewhere

Examples:
- "call mom tomorrow" → title: "Call Mom", due_date: "{tomorrow}", tags: ["personal"]
- "urgent meeting prep for work" → title: "Prepare materials for meeting", priority: "high", tags: ["work"]
- "buy groceries this weekend low priority" → title: "Buy groceries", due_date: "{weekend}", priority: "low", tags: ["shopping"]
- "the report" → title: "Complete the report"
- "check snowflake data" → title: "Review Snowflake data and verify accuracy"
- "email john about project" → title: "Email John regarding project status"

Respond ONLY with valid JSON:
{
  "title": "string starting with verb (required)",
  "due_date": "YYYY-MM-DD or null",
  "priority": "high|medium|low or null",
  "tags": ["array", "of", "strings"],
  "context": "string or null"
}

Today's date is: {today}`

const dateLayout = "2006-01-02"

// buildSystemPrompt substitutes the date placeholders and appends the goals
// context when the user keeps active goals.
func buildSystemPrompt(today time.Time, goals string) string {
	prompt := strings.NewReplacer(
		"{today}", today.Format(dateLayout),
		"{tomorrow}", today.AddDate(0, 0, 1).Format(dateLayout),
		"{weekend}", nextSaturday(today).Format(dateLayout),
	).Replace(systemPrompt)

	if goals != "" {
		var sb strings.Builder
		sb.WriteString(prompt)
		sb.WriteString("\n\n--- User's Goals & Priorities (GTD Horizons of Focus) ---\n")
		sb.WriteString(goals)
		sb.WriteString("\n\nUse these goals to help determine appropriate priority and tags. ")
		sb.WriteString("Tasks that align with high-priority goals should be marked as higher priority.")
		return sb.String()
	}
	return prompt
}

func buildUserPrompt(raw string) string {
	return fmt.Sprintf("Parse this task: %q", raw)
}

// nextSaturday returns the upcoming Saturday, a week out when today already
// is one.
func nextSaturday(t time.Time) time.Time {
	days := (int(time.Saturday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, days)
}
