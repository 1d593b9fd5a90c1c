package calculation

import (
	"fmt"
	"time"

	"github.com/0xdavidjansen/crewtax/internal/domain"
)

// diagnostics collects advisory findings during one engine invocation.
// It is local per call; nothing survives between invocations.
type diagnostics struct {
	logger Logger
	items  []domain.Diagnostic
}

func newDiagnostics(logger Logger) *diagnostics {
	return &diagnostics{logger: logger}
}

func (d *diagnostics) warnf(date time.Time, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.logger.Warnf("%s", msg)
	d.items = append(d.items, domain.Diagnostic{Severity: domain.SeverityWarning, Date: date, Message: msg})
}

func (d *diagnostics) infof(date time.Time, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.logger.Infof("%s", msg)
	d.items = append(d.items, domain.Diagnostic{Severity: domain.SeverityInfo, Date: date, Message: msg})
}
