package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vk/stepflow/internal/progress"
)

// formatDetail renders the kind-specific value/total column of a row.
func formatDetail(row progress.Row) string {
	switch row.Kind {
	case progress.KindSteps:
		if row.Total > 0 {
			return fmt.Sprintf("%d/%d", row.Value, row.Total)
		}
		if row.Value > 0 {
			return fmt.Sprintf("%d", row.Value)
		}
		return ""
	case progress.KindBytes:
		if row.Total > 0 {
			return fmt.Sprintf("%s/%s", humanize.IBytes(uint64(row.Value)), humanize.IBytes(uint64(row.Total)))
		}
		if row.Value > 0 {
			return humanize.IBytes(uint64(row.Value))
		}
		return ""
	case progress.KindPercent:
		if row.Total > 0 {
			return fmt.Sprintf("%d%%", row.Value*100/row.Total)
		}
		return ""
	case progress.KindDuration:
		if row.Value > 0 {
			return time.Duration(row.Value).Round(time.Millisecond).String()
		}
		return ""
	default:
		return ""
	}
}
