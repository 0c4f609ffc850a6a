package command

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Validator checks the argument vector of a command, argv excludes the name tokens.
// Positions beyond len(argv) are left to the arity check.
type Validator func(argv [][]byte) (ok bool, reason string)

// IntegerAt requires argv[i] to be an integer
func IntegerAt(i int) Validator {
	return func(argv [][]byte) (bool, string) {
		if i >= len(argv) {
			return true, ""
		}
		if _, err := strconv.ParseInt(string(argv[i]), 10, 64); err != nil {
			return false, "value is not an integer or out of range"
		}
		return true, ""
	}
}

// FloatAt requires argv[i] to be a float
func FloatAt(i int) Validator {
	return func(argv [][]byte) (bool, string) {
		if i >= len(argv) {
			return true, ""
		}
		if _, err := strconv.ParseFloat(string(argv[i]), 64); err != nil {
			return false, "value is not a valid float"
		}
		return true, ""
	}
}

// OneOf requires argv[i] to be one of options, case-insensitive
func OneOf(i int, options ...string) Validator {
	return func(argv [][]byte) (bool, string) {
		if i >= len(argv) {
			return true, ""
		}
		for _, opt := range options {
			if strings.EqualFold(opt, string(argv[i])) {
				return true, ""
			}
		}
		return false, "syntax error, expected one of " + strings.Join(options, "|")
	}
}

// EvenFrom requires field/value pairs from position i
func EvenFrom(i int) Validator {
	return Pairs(i, 2)
}

// Pairs requires the arguments from position i to come in groups of n
func Pairs(i, n int) Validator {
	return func(argv [][]byte) (bool, string) {
		if i >= len(argv) {
			return true, ""
		}
		if (len(argv)-i)%n != 0 {
			return false, "wrong number of arguments, expected groups of " + strconv.Itoa(n)
		}
		return true, ""
	}
}

// IntegerOption requires the value following option to be an integer, options are name/value pairs from position i
func IntegerOption(i int, option string) Validator {
	return func(argv [][]byte) (bool, string) {
		for j := i; j+1 < len(argv); j += 2 {
			if !strings.EqualFold(string(argv[j]), option) {
				continue
			}
			if _, err := strconv.ParseInt(string(argv[j+1]), 10, 64); err != nil {
				return false, option + " value is not an integer or out of range"
			}
		}
		return true, ""
	}
}

// JSONAt requires argv[i] to be a valid JSON document
func JSONAt(i int) Validator {
	return func(argv [][]byte) (bool, string) {
		if i >= len(argv) {
			return true, ""
		}
		if !gjson.ValidBytes(argv[i]) {
			return false, "expected a valid JSON document"
		}
		return true, ""
	}
}

// NotEmptyAt requires argv[i] to be a non-empty string
func NotEmptyAt(i int) Validator {
	return func(argv [][]byte) (bool, string) {
		if i >= len(argv) {
			return true, ""
		}
		if len(argv[i]) == 0 {
			return false, "empty argument"
		}
		return true, ""
	}
}

// ScoredPairsFrom requires score/member pairs from position i, tokens in flags may precede them
func ScoredPairsFrom(i int, flags ...string) Validator {
	return func(argv [][]byte) (bool, string) {
		if i > len(argv) {
			return true, ""
		}
		pos := i
	skip:
		for pos < len(argv) {
			for _, f := range flags {
				if strings.EqualFold(f, string(argv[pos])) {
					pos++
					continue skip
				}
			}
			break
		}
		rest := argv[pos:]
		if len(rest) == 0 || len(rest)%2 != 0 {
			return false, "syntax error, expected score member pairs"
		}
		for j := 0; j < len(rest); j += 2 {
			if _, err := strconv.ParseFloat(string(rest[j]), 64); err != nil {
				return false, "value is not a valid float"
			}
		}
		return true, ""
	}
}
