package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type palette struct {
	label, message, category, usage, fix, bullet func(a ...interface{}) string
}

var (
	colored = palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		bullet:   color.New(color.FgGreen).SprintFunc(),
	}
	plain = palette{
		label: fmt.Sprint, message: fmt.Sprint, category: fmt.Sprint,
		usage: fmt.Sprint, fix: fmt.Sprint, bullet: fmt.Sprint,
	}
)

// FormatError formats a CLIError for the terminal. fatih/color disables
// escapes on its own when stderr is not a TTY or NO_COLOR is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\nUsage: %s\n", p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("Try:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// Report prints any error to w, promoting plain errors to runtime CLIErrors,
// and returns the exit code the process should use.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, Runtime)
	}
	fmt.Fprint(w, FormatError(cliErr))
	return cliErr.Category.ExitCode()
}
