package grammar

import (
	"regexp"
	"strings"
)

// Match is the result of a successful recognizer call: the matched slice
// and optional extra data a Custom recognizer wants to pass along to the
// resulting Token (spec.md §3 Token.extra).
type Match struct {
	Text  string
	Extra []interface{}
}

// Recognizer maps (input, position) to a matched slice or "no match". It
// must be a pure function of its arguments and must not consume input past
// its own match — the scannerless lexer calls recognizers speculatively,
// for every terminal the current parser state could possibly accept, and
// relies on that contract to try several recognizers at the same position
// without side effects.
//
// Three concrete kinds exist, mirroring the teacher's split between
// pattern-sourced and callable recognizers (dekarrin-tunaq
// internal/ictiobus/lex/regex.go keeps the source pattern alongside a
// compiled matcher for the same reason: error messages need the original
// text).
type Recognizer interface {
	// Match attempts a match of input[pos:]. ok is false if nothing
	// matched.
	Match(input string, pos int) (m Match, ok bool)

	// Source returns a human-readable rendering of the recognizer, used in
	// diagnostics and in duplicate-literal detection.
	Source() string
}

// StringRecognizer matches a fixed literal, optionally case-insensitively.
type StringRecognizer struct {
	Value      string
	IgnoreCase bool
}

// NewStringRecognizer builds a StringRecognizer.
func NewStringRecognizer(value string, ignoreCase bool) *StringRecognizer {
	return &StringRecognizer{Value: value, IgnoreCase: ignoreCase}
}

func (r *StringRecognizer) Match(input string, pos int) (Match, bool) {
	if pos+len(r.Value) > len(input) {
		return Match{}, false
	}
	candidate := input[pos : pos+len(r.Value)]
	if r.IgnoreCase {
		if !strings.EqualFold(candidate, r.Value) {
			return Match{}, false
		}
	} else if candidate != r.Value {
		return Match{}, false
	}
	return Match{Text: candidate}, true
}

func (r *StringRecognizer) Source() string { return r.Value }

// RegexRecognizer matches input against a compiled regular expression,
// anchored at pos. VERBOSE (whitespace/`#`-comment-insensitive) and
// MULTILINE are the spec's defaults (spec.md §9); case-insensitivity is
// toggled per grammar.
//
// Go's regexp (RE2) has no on-demand "match starting exactly here" verb
// other than anchoring the pattern itself, so the recognizer compiles the
// pattern with a leading `\A` (absolute start of a regexp.FindStringIndex
// call over input[pos:]) the way dekarrin-tunaq's lazy lexer builds an
// anchored "super pattern" per state (internal/ictiobus/lex/lazy.go uses
// `^(?:...)`) — this package applies the same anchoring per-terminal
// instead of pre-merging every terminal into one pattern, since the set of
// terminals tried differs per parser state (stdlib regexp, not a
// third-party engine: no example repo ships a from-scratch regex engine
// and Go's RE2 already gives linear-time matching with no backtracking
// blowup, which is what a scannerless parser trying many candidate
// terminals per position needs).
type RegexRecognizer struct {
	Pattern string // original source pattern, as written by the user
	re      *regexp.Regexp
}

// NewRegexRecognizer compiles pattern (after translating VERBOSE-mode
// comments/whitespace the way Python's re.VERBOSE does) into an
// RE2 pattern anchored for a per-position match.
func NewRegexRecognizer(pattern string, ignoreCase bool) (*RegexRecognizer, error) {
	flags := "(?m)" // MULTILINE default: ^ and $ also match at line boundaries
	if ignoreCase {
		flags += "(?i)"
	}
	compiled, err := regexp.Compile(`\A(?:` + flags + stripVerboseComments(pattern) + `)`)
	if err != nil {
		return nil, err
	}
	return &RegexRecognizer{Pattern: pattern, re: compiled}, nil
}

// stripVerboseComments removes unescaped whitespace and `#`-to-end-of-line
// comments from pattern, the way Python's re.VERBOSE flag does, since Go's
// regexp package has no native verbose mode.
func stripVerboseComments(pattern string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			b.WriteByte(c)
			b.WriteByte(pattern[i+1])
			i++
		case c == '[':
			inClass = true
			b.WriteByte(c)
		case c == ']':
			inClass = false
			b.WriteByte(c)
		case !inClass && (c == ' ' || c == '\t' || c == '\n' || c == '\r'):
			// skip
		case !inClass && c == '#':
			for i < len(pattern) && pattern[i] != '\n' {
				i++
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (r *RegexRecognizer) Match(input string, pos int) (Match, bool) {
	loc := r.re.FindStringIndex(input[pos:])
	if loc == nil || loc[0] != 0 {
		return Match{}, false
	}
	return Match{Text: input[pos : pos+loc[1]]}, true
}

func (r *RegexRecognizer) Source() string { return "/" + r.Pattern + "/" }

// CustomFunc is the calling contract for a host-supplied recognizer
// function: given input and a position, return the matched slice (and any
// extra data) or ok=false. It must behave as a pure function of its
// arguments and must not look past its own match.
type CustomFunc func(input string, pos int) (m Match, ok bool)

// FuncRecognizer adapts a CustomFunc to the Recognizer interface.
type FuncRecognizer struct {
	Name string
	Fn   CustomFunc
}

// NewFuncRecognizer wraps fn as a Recognizer, named for diagnostics.
func NewFuncRecognizer(name string, fn CustomFunc) *FuncRecognizer {
	return &FuncRecognizer{Name: name, Fn: fn}
}

func (r *FuncRecognizer) Match(input string, pos int) (Match, bool) { return r.Fn(input, pos) }
func (r *FuncRecognizer) Source() string                            { return "<func:" + r.Name + ">" }

// wordBoundaryKeyword rewrites a string literal into the word-bounded regex
// terminal required when a KEYWORD rule exists (spec.md §4.1): a literal
// `for` must not match inside `forward`.
func wordBoundaryKeyword(literal string, ignoreCase bool) (*RegexRecognizer, error) {
	return NewRegexRecognizer(`\b`+regexp.QuoteMeta(literal)+`\b`, ignoreCase)
}
