package conversation

// lines.go holds every sentence the quest log says to the user. Edit this
// file to change the tone.

import (
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/moat/internal/domain"
)

func LineWelcome() string {
	return "Live production access granted. Pick a mission."
}

func LineBye() string {
	return "Lars knows why. Goodbye."
}

// LineUnlocked reports a fresh unlock with the counter changes.
func LineUnlocked(r *domain.Recipe, securityDelta, chaosDelta float64) string {
	return fmt.Sprintf("Deployed: %s. Job Security +%s, System Chaos +%s.",
		r.Title, formatDelta(securityDelta), formatDelta(chaosDelta))
}

func LineAlreadyDeployed(r *domain.Recipe) string {
	return fmt.Sprintf("%s is already deployed. The moat holds.", r.Title)
}

func LineUnknownRecipe(ref string) string {
	return fmt.Sprintf("No mission called %q. Nothing happened, as usual.", ref)
}

func LineUnknownCommand(input string) string {
	return fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", input)
}

func LineSessionOver() string {
	return "This session is closed. Start a new one."
}

func LineMaxedOut() string {
	return "Job Security 100%. You are now a vital organ."
}

// LineStatus summarises the counters the way the sidebar shows them.
func LineStatus(p domain.Progress, total int) string {
	return fmt.Sprintf("Job Security %d%% | System Chaos %d%% | %d/%d fortified",
		Percent(p.SecurityScore), Percent(p.ChaosMeter), len(p.Unlocked), total)
}

func LineSearchResults(query string, results []domain.RecipeSummary) string {
	if len(results) == 0 {
		return fmt.Sprintf("Nothing matches %q. Lars hid it well.", query)
	}
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = fmt.Sprintf("%d. %s", r.Level, r.Title)
	}
	return fmt.Sprintf("%d match(es) for %q: %s", len(results), query, strings.Join(names, "; "))
}

// HelpText is the command reference shown by 'help'.
func HelpText() []string {
	return []string{
		"up/down, j/k      move through the mission log",
		"enter, u          execute sabotage on the selected mission",
		"pgup/pgdown       scroll the mission briefing",
		":                 open the command line",
		"  select <n|id>   open a mission",
		"  unlock [n|id]   unlock a mission (default: the open one)",
		"  search <text>   find missions",
		"  status          show the counters",
		"q, ctrl+c         quit",
	}
}

// Percent floors a counter for display, as the progress bars do.
func Percent(v float64) int {
	return int(math.Floor(v))
}

func formatDelta(d float64) string {
	if d == math.Trunc(d) {
		return fmt.Sprintf("%.0f", d)
	}
	return fmt.Sprintf("%.1f", d)
}

// LineMissionList is the one-line answer to 'list'.
func LineMissionList(recipes []domain.RecipeSummary, p domain.Progress) string {
	names := make([]string, len(recipes))
	for i, r := range recipes {
		mark := ""
		if p.Has(r.ID) {
			mark = " ✓"
		}
		names[i] = fmt.Sprintf("%d. %s%s", r.Level, r.Title, mark)
	}
	return fmt.Sprintf("%d missions: %s", len(recipes), strings.Join(names, "; "))
}
