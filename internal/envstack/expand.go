package envstack

import (
	"regexp"
	"strings"
)

// varPattern matches ${VAR} references in command arguments and script
// bodies. The forwarded-arguments token ${@} is deliberately outside this
// pattern and handled by ExpandArgs.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// splitPattern matches an @@split(VAR,delim) argument, which expands one
// string argument into multiple argv entries.
var splitPattern = regexp.MustCompile(`^@@split\(([A-Za-z_][A-Za-z0-9_]*),(.*)\)$`)

// allArgsToken forwards the engine's trailing arguments verbatim, one argv
// entry per argument.
const allArgsToken = "${@}"

// Interpolate substitutes every ${VAR} reference in the input with the
// variable's resolved value. Absent variables substitute to the empty string.
func (s *Stack) Interpolate(in string) string {
	return varPattern.ReplaceAllStringFunc(in, func(match string) string {
		name := match[2 : len(match)-1]
		v, _ := s.Resolve(name)
		return v
	})
}

// ExpandArgs resolves a declared argument list into concrete argv entries:
// a bare ${@} expands to the trailing arguments one argv entry each, a ${@}
// embedded in a larger argument substitutes them joined by spaces,
// @@split(VAR,delim) expands the variable's resolved value split on the
// delimiter, and everything else is interpolated in place. Empty split
// segments are dropped so an unset variable contributes no argv entries.
func (s *Stack) ExpandArgs(args []string, trailing []string) []string {
	out := make([]string, 0, len(args)+len(trailing))
	for _, arg := range args {
		switch {
		case arg == allArgsToken:
			out = append(out, trailing...)
		case splitPattern.MatchString(arg):
			m := splitPattern.FindStringSubmatch(arg)
			name, delim := m[1], m[2]
			if delim == "" {
				delim = " "
			}
			v, _ := s.Resolve(name)
			for _, part := range strings.Split(v, delim) {
				if part != "" {
					out = append(out, part)
				}
			}
		default:
			expanded := s.Interpolate(arg)
			if strings.Contains(expanded, allArgsToken) {
				expanded = strings.ReplaceAll(expanded, allArgsToken, strings.Join(trailing, " "))
			}
			out = append(out, expanded)
		}
	}
	return out
}
