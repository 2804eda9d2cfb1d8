// Package orchestration runs a validation off the caller's goroutine. A
// Runner asks the reference provider for the reference computation, compares
// it with the candidate channel by channel, aggregates a verdict and builds
// the report, publishing ordered progress events followed by exactly one
// terminal outcome. Presentation layers consume the events through the
// Consumer interface and never poll the runner.
package orchestration
