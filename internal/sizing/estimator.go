package sizing

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultCharsPerToken = 4
	DefaultMaxTokens     = 4095

	// newlineCutRatio is how far into the kept prefix the last newline must be
	// for truncation to end on a line boundary.
	newlineCutRatio = 0.9
)

// Status classifies a token estimate against a limit L.
type Status int

const (
	StatusWithin  Status = iota
	StatusExceeds        // above L
	StatusExtreme        // above 2L
)

func (s Status) String() string {
	switch s {
	case StatusExceeds:
		return "exceeds"
	case StatusExtreme:
		return "extreme"
	default:
		return "within"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Exceeds reports whether the status is above the limit, extreme included.
func (s Status) Exceeds() bool {
	return s != StatusWithin
}

// Estimator converts character counts to tokens with a fixed ratio. A single
// instance is shared by analysis and truncation so both agree on sizes.
type Estimator struct {
	charsPerToken int
}

func New(charsPerToken int) (*Estimator, error) {
	if charsPerToken < 1 {
		return nil, fmt.Errorf("chars per token must be at least 1, got %d", charsPerToken)
	}
	return &Estimator{charsPerToken: charsPerToken}, nil
}

// Default returns an estimator with DefaultCharsPerToken.
func Default() *Estimator {
	return &Estimator{charsPerToken: DefaultCharsPerToken}
}

func (e *Estimator) CharsPerToken() int {
	return e.charsPerToken
}

// CountChars returns the length of s in code points.
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}

// CountLines returns the number of lines in s; an empty string has none.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// EstimateTokens returns floor(chars / K).
func (e *Estimator) EstimateTokens(chars int) int {
	if chars <= 0 {
		return 0
	}
	return chars / e.charsPerToken
}

// EstimateText estimates the tokens of s.
func (e *Estimator) EstimateText(s string) int {
	return e.EstimateTokens(CountChars(s))
}

// Classify compares an estimate against limit.
func (e *Estimator) Classify(tokens, limit int) Status {
	switch {
	case tokens > 2*limit:
		return StatusExtreme
	case tokens > limit:
		return StatusExceeds
	default:
		return StatusWithin
	}
}

// Truncate bounds code to maxTokens*K code points. When the last newline of the
// kept prefix is at or past 90% of that bound the cut moves back to it so the
// result ends on a whole line. The result is always a prefix of code.
func (e *Estimator) Truncate(code string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	// a string never holds more code points than bytes
	if maxTokens >= len(code) {
		return code
	}
	maxChars := maxTokens * e.charsPerToken
	if CountChars(code) <= maxChars {
		return code
	}

	prefix := code[:byteOffset(code, maxChars)]
	if nl := strings.LastIndexByte(prefix, '\n'); nl >= 0 {
		if float64(CountChars(prefix[:nl])) >= newlineCutRatio*float64(maxChars) {
			return prefix[:nl]
		}
	}
	return prefix
}

// byteOffset returns the byte index where the n-th code point of s starts.
func byteOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}
