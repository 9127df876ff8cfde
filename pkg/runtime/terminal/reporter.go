package terminal

import (
	"io"

	"github.com/de-tools/tradeline-atlas/pkg/runtime/terminal/export"
)

func newReporter(writer io.Writer, asJSON bool) export.Reporter {
	if asJSON {
		return export.NewJSONReporter(writer)
	}
	return export.NewTextReporter(writer)
}
