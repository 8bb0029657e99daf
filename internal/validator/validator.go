package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/robobunny/pkg/domain"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one problem found in a workspace.
type Finding struct {
	Path     string // e.g. "blocks[1].do[0]"
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Path, f.Message)
}

// Lint walks every block of ws and reports what the compiler would skip or
// default. A limit above zero also checks the block count.
func Lint(ws *domain.Workspace, limit int) []Finding {
	if ws == nil {
		return nil
	}

	type item struct {
		path string
		spec domain.BlockSpec
	}
	var queue []item
	for i, b := range ws.Blocks {
		queue = append(queue, item{fmt.Sprintf("blocks[%d]", i), b})
	}

	var findings []Finding
	add := func(path string, sev Severity, format string, args ...any) {
		findings = append(findings, Finding{Path: path, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	count := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		count++

		b := cur.spec
		switch b.Type {
		case domain.BlockRepeat:
			if b.Times != "" {
				count++
				if domain.ParseLeadingInt(b.Times) == 0 {
					add(cur.path, SeverityWarning, "times %q is not a non-zero number; repeats %d times", b.Times, domain.DefaultRepeatTimes)
				}
			}
			if len(b.Do) == 0 {
				add(cur.path, SeverityWarning, "repeat has an empty body")
			}
			for i, child := range b.Do {
				queue = append(queue, item{fmt.Sprintf("%s.do[%d]", cur.path, i), child})
			}

		case domain.BlockForwardJump, domain.BlockForwardRightJump, domain.BlockForwardLeftJump:
			if n := domain.ParseLeadingInt(b.Value); n <= 0 {
				add(cur.path, SeverityWarning, "jump distance %q moves %d cells", b.Value, n)
			}

		case domain.BlockTurn:
			if !domain.Direction(b.Value).Valid() {
				add(cur.path, SeverityError, "unknown turn direction %q", b.Value)
			}

		default:
			add(cur.path, SeverityWarning, "unsupported block type %q is skipped", b.Type)
		}
	}

	if limit > 0 && count >= limit {
		add("blocks", SeverityError, "uses %d blocks, limit is %d", count, limit)
	}
	return findings
}

// Validate returns an error listing every error-level finding.
func Validate(ws *domain.Workspace, limit int) error {
	var errs []string
	for _, f := range Lint(ws, limit) {
		if f.Severity == SeverityError {
			errs = append(errs, f.Path+": "+f.Message)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}
