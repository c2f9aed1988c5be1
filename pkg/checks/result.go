// Package checks defines the environment check registry: named, independent
// probes that take a resolved project context and report pass/warn/fail.
package checks

import "fmt"

// Status is a check outcome. Ordering matters: fail > warn > pass.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Worst returns the more severe of two statuses.
func (s Status) Worst(other Status) Status {
	if other > s {
		return other
	}
	return s
}

// Mode selects which battery of checks runs.
type Mode string

const (
	// ModeStandard covers local development readiness.
	ModeStandard Mode = "standard"
	// ModeDeploy is a strict superset of standard plus deployment
	// readiness checks.
	ModeDeploy Mode = "deploy"
)

// Result is the immutable outcome of one check execution.
type Result struct {
	Name    string
	Status  Status
	Message string
	// Hint suggests a remediation, e.g. "run 'dh setup'". Optional.
	Hint string
}

func pass(name, format string, args ...any) Result {
	return result(name, StatusPass, "", format, args...)
}

func warn(name, hint, format string, args ...any) Result {
	return result(name, StatusWarn, hint, format, args...)
}

func fail(name, hint, format string, args ...any) Result {
	return result(name, StatusFail, hint, format, args...)
}

func result(name string, status Status, hint, format string, args ...any) Result {
	return Result{Name: name, Status: status, Message: fmt.Sprintf(format, args...), Hint: hint}
}
