package pickyport

import "strings"

// Command is one external tool invocation, built but not yet run. Echo is
// the human line printed before execution; Env carries credential
// variables for the child process so passwords stay out of argv; Stdin,
// when set, is a file fed to the tool's standard input.
type Command struct {
	Echo  string
	Path  string
	Args  []string
	Env   []string
	Stdin string
}

// String renders the command the way a shell user would type it, with
// env values masked. This is what debug and dry-run modes print.
func (c Command) String() string {
	var b strings.Builder
	for _, env := range c.Env {
		name, _, ok := strings.Cut(env, "=")
		if ok {
			b.WriteString(name + "=****")
		} else {
			b.WriteString(env)
		}
		b.WriteByte(' ')
	}

	b.WriteString(c.Path)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		if strings.ContainsAny(arg, " \t'\";$`") {
			b.WriteString("'" + strings.ReplaceAll(arg, "'", `'\''`) + "'")
		} else {
			b.WriteString(arg)
		}
	}

	if c.Stdin != "" {
		b.WriteString(" < " + c.Stdin)
	}

	return b.String()
}
