// Package logvision re-renders logging calls as structured, leveled and
// optionally colorized lines.
//
// A Formatter turns an Entry into one line in pretty, minimal or json mode.
// An Interceptor swaps the entry points of a Console (log, info, warn, error,
// debug) for wrappers that build an Entry from arbitrary arguments and pass
// the rendered line to the original entry point; Restore puts the originals
// back. A Logger is the direct structured API with a severity threshold.
//
//	it := logvision.NewInterceptor(logvision.Options{Mode: logvision.ModeMinimal})
//	it.Intercept()
//	defer it.Restore()
//	logvision.Warn("disk low") // [WARN] disk low, or ⚠️ WARN disk low in yellow
//
// In json mode each line is an object with timestamp (ISO-8601, UTC, ms),
// level and message, followed by context and appName when present. Absent
// optional fields are omitted.
package logvision
