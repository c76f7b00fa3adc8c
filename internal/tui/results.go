package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/buddytype/internal/model"
	"github.com/verte-zerg/buddytype/internal/stats"
)

func (st styles) resultMetric(label, value string) string {
	return st.label.Render(label) + "\n" + st.value.Render(value)
}

// renderResults lays out the final metrics, the character breakdown and
// a sparkline of the raw speed samples.
func (st styles) renderResults(res model.TestResult, history []float64, width int) string {
	metrics := []string{
		st.resultMetric("wpm", fmt.Sprintf("%d", res.WPM)),
		st.resultMetric("acc", fmt.Sprintf("%.2f%%", res.Accuracy)),
		st.resultMetric("raw", fmt.Sprintf("%d", res.RawWPM)),
		st.resultMetric("consistency", fmt.Sprintf("%.2f%%", res.Consistency)),
		st.resultMetric("time", fmt.Sprintf("%.1fs", res.ElapsedSeconds)),
	}
	cells := make([]string, 0, len(metrics))
	for _, metric := range metrics {
		cells = append(cells, lipgloss.NewStyle().PaddingRight(4).Render(metric))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

	chars := fmt.Sprintf("characters %d/%d/%d/%d  words %d/%d",
		res.CorrectChars, res.IncorrectChars, res.ExtraChars, res.MissedChars,
		res.CorrectWords, res.TotalWords)
	lines := []string{row, "", st.label.Render(chars)}

	if len(history) > 1 {
		spark := history
		if len(spark) > width {
			spark = spark[len(spark)-width:]
		}
		lines = append(lines, "", st.correct.Render(stats.Sparkline(spark)))
	}
	lines = append(lines, "", st.footer.Render("enter next test  tab restart  esc quit"))
	return strings.Join(lines, "\n")
}
