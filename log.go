package htmlxpath

import "github.com/sirupsen/logrus"

// Log is the package-level logger used for construction-time and cache
// diagnostics. It is never consulted on the evaluator's hot path: Apply and
// ApplyToItem stay pure functions of their arguments.
var Log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the package-level logger, e.g. to attach a caller's
// own structured fields or a test hook.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		Log = logrus.StandardLogger()
		return
	}
	Log = l
}
