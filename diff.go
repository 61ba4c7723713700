package dynstr

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// UnifiedDiff renders a line-oriented unified diff that turns from into to.
//
// It performs a Myers diff using github.com/hexops/gotextdiff. Identical
// contents (including two nil or empty values) produce "". The headers name
// the sides "from" and "to".
func UnifiedDiff(from, to *DynString) string {
	a, b := from.String(), to.String()
	if a == b {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath("from"), a, b)
	return fmt.Sprint(gotextdiff.ToUnified("from", "to", a, edits))
}
