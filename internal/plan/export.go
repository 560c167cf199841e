package plan

import (
	"fmt"
	"strings"
)

// ChainReport is a human-readable summary of a plan, printed by the plan command.
type ChainReport struct {
	Record      string
	Policy      string
	Constructor string
	Steps       []StepReport
	Final       string
	Checked     int
}

// StepReport describes one transition of the chain.
type StepReport struct {
	From     string
	Method   string
	Param    string
	Type     string
	To       string
	Field    string
	Renamed  bool
	Position int
}

// GenerateReport creates a report from a synthesized plan.
func GenerateReport(p *BuilderPlan) *ChainReport {
	report := &ChainReport{
		Record:      p.Record,
		Policy:      p.Finalizer.Policy.String(),
		Constructor: p.Constructor,
		Steps:       make([]StepReport, 0, len(p.Setters)),
		Final:       p.Final().TypeName,
		Checked:     len(p.Finalizer.Checked),
	}

	for _, s := range p.Setters {
		report.Steps = append(report.Steps, StepReport{
			From:     p.States[s.From].TypeName,
			Method:   s.Method,
			Param:    s.Param,
			Type:     s.Field.Type.Expr,
			To:       p.States[s.To].TypeName,
			Field:    s.Field.Name,
			Renamed:  s.Field.Renamed(),
			Position: s.Field.Index,
		})
	}

	return report
}

// FormatReport formats chain reports as text, one block per record.
func FormatReport(reports ...*ChainReport) string {
	var sb strings.Builder

	for _, r := range reports {
		fmt.Fprintf(&sb, "=== %s (%s) ===\n", r.Record, r.Policy)
		fmt.Fprintf(&sb, "%s() -> %s\n", r.Constructor, firstState(r))

		for _, s := range r.Steps {
			fmt.Fprintf(&sb, "  #%d %s.%s(%s %s) -> %s", s.Position, s.From, s.Method, s.Param, s.Type, s.To)

			if s.Renamed {
				fmt.Fprintf(&sb, "  [field %s]", s.Field)
			}

			sb.WriteString("\n")
		}

		fmt.Fprintf(&sb, "%s.%s() -> (%s, error)", r.Final, BuildMethod, r.Record)

		if r.Checked > 0 {
			fmt.Fprintf(&sb, "  checks %d slots", r.Checked)
		} else {
			sb.WriteString("  zero values for unset slots")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func firstState(r *ChainReport) string {
	if len(r.Steps) == 0 {
		return r.Final
	}

	return r.Steps[0].From
}
