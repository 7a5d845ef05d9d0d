package pipeline

import (
	"fmt"
	"strings"

	"eolgames/internal/config"
)

type DetectResult struct {
	OK     bool
	Reason string
}

// detectTable checks a candidate against a category's fallback rule:
// every required field mapped, no forbidden field mapped, and enough
// data rows to rule out navboxes and infoboxes.
func detectTable(h TableHandle, rule config.FallbackRule, minRows int) DetectResult {
	if len(rule.Required) == 0 {
		return DetectResult{Reason: "no fallback rule"}
	}

	var missing []string
	for _, f := range rule.Required {
		if !h.Schema.Has(f) {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return DetectResult{Reason: "missing " + strings.Join(missing, ", ")}
	}

	for _, f := range rule.Forbidden {
		if h.Schema.Has(f) {
			return DetectResult{Reason: fmt.Sprintf("has %s column", f)}
		}
	}

	if rows := h.DataRowCount(); rows < minRows {
		return DetectResult{Reason: fmt.Sprintf("%d data rows, need %d", rows, minRows)}
	}
	return DetectResult{OK: true, Reason: "fallback rule matched"}
}
