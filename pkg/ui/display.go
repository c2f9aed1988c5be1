package ui

// Display helpers mirror the glyph vocabulary the CLI uses everywhere:
// success, warning, error, info, and numbered setup steps.

// Success prints a message prefixed with a check mark.
func Success(format string, args ...any) {
	Out().Printf("✅ "+format+"\n", args...)
}

// Warning prints a message prefixed with a warning sign.
func Warning(format string, args ...any) {
	Out().Printf("⚠️  "+format+"\n", args...)
}

// Error prints a message prefixed with a cross mark.
func Error(format string, args ...any) {
	Out().Printf("❌ "+format+"\n", args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	Out().Printf("ℹ️  "+format+"\n", args...)
}

// Step prints a numbered step header for multi-stage flows like setup.
func Step(n int, format string, args ...any) {
	Out().Printf("\n[%d] "+format+"\n", append([]any{n}, args...)...)
}

// Header prints a bold-ish section header.
func Header(format string, args ...any) {
	Out().Printf("\n"+format+"\n", args...)
}

// Plain prints a line with no prefix.
func Plain(format string, args ...any) {
	Out().Printf(format+"\n", args...)
}
