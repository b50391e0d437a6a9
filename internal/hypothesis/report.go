package hypothesis

import (
	"fmt"
	"strings"
)

// Report renders results as a markdown document: a summary table followed
// by one section per test.
func Report(results []*TestResult) string {
	var b strings.Builder
	b.WriteString("# Hypothesis Tests\n\n")
	b.WriteString("| Test | Statistic | df | p-value | Decision |\n")
	b.WriteString("|---|---:|---:|---:|---|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %.4f | %s | %.6f | %s |\n",
			r.Name, r.Statistic, formatDF(r), r.PValue, decisionLabel(r.Decision))
	}

	for _, r := range results {
		fmt.Fprintf(&b, "\n## %s\n\n", r.Name)
		if r.NullHypothesis != "" {
			fmt.Fprintf(&b, "- **H0:** %s\n", r.NullHypothesis)
			fmt.Fprintf(&b, "- **H1:** %s\n", r.AltHypothesis)
		}
		fmt.Fprintf(&b, "- **Significance level:** %g\n", r.Alpha)
		fmt.Fprintf(&b, "- **Decision:** %s\n", decisionLabel(r.Decision))
		if r.Conclusion != "" {
			fmt.Fprintf(&b, "\n%s\n", r.Conclusion)
		}

		if len(r.Groups) > 0 {
			b.WriteString("\n| Level | n | Mean | Std |\n|---|---:|---:|---:|\n")
			for _, g := range r.Groups {
				fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f |\n", g.Level, g.N, g.Mean, g.StdDev)
			}
		}
		if c := r.Contingency; c != nil {
			b.WriteString("\n| |")
			for _, col := range c.Cols {
				fmt.Fprintf(&b, " %s |", col)
			}
			b.WriteString("\n|---|")
			b.WriteString(strings.Repeat("---:|", len(c.Cols)))
			b.WriteString("\n")
			for i, row := range c.Rows {
				fmt.Fprintf(&b, "| %s |", row)
				for _, n := range c.Observed[i] {
					fmt.Fprintf(&b, " %d |", n)
				}
				b.WriteString("\n")
			}
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "\n> %s\n", w)
		}
	}
	return b.String()
}

func formatDF(r *TestResult) string {
	if r.DegreesOfFreedom == nil {
		return "-"
	}
	if r.DenominatorDF != nil {
		return fmt.Sprintf("%g, %g", *r.DegreesOfFreedom, *r.DenominatorDF)
	}
	return fmt.Sprintf("%.4g", *r.DegreesOfFreedom)
}

func decisionLabel(d Decision) string {
	if d == RejectNull {
		return "Reject H0"
	}
	return "Fail to reject H0"
}
