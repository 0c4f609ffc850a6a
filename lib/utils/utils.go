package utils

import (
	"strconv"
	"strings"
)

// ToCmdLine convert strings to [][]byte
func ToCmdLine(cmd ...string) [][]byte {
	args := make([][]byte, len(cmd))
	for i, s := range cmd {
		args[i] = []byte(s)
	}
	return args
}

// ToCmdLine2 convert commandName and string-type argument to [][]byte
func ToCmdLine2(commandName string, args ...string) [][]byte {
	result := make([][]byte, len(args)+1)
	result[0] = []byte(commandName)
	for i, s := range args {
		result[i+1] = []byte(s)
	}
	return result
}

// ToCmdLine3 convert commandName and []byte-type argument to CmdLine
func ToCmdLine3(commandName string, args ...[]byte) [][]byte {
	result := make([][]byte, len(args)+1)
	result[0] = []byte(commandName)
	for i, s := range args {
		result[i+1] = s
	}
	return result
}

// CmdLineString renders a command line the way redis-cli echoes it,
// tokens holding blanks, quotes or non printable bytes are quoted
func CmdLineString(cmdLine [][]byte) string {
	var sb strings.Builder
	for i, arg := range cmdLine {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(quoteIfNeeded(arg))
	}
	return sb.String()
}

func quoteIfNeeded(arg []byte) string {
	if len(arg) == 0 {
		return `""`
	}
	for _, c := range arg {
		if c <= ' ' || c >= 0x7f || c == '"' || c == '\'' || c == '\\' {
			return strconv.Quote(string(arg))
		}
	}
	return string(arg)
}

// SplitCmdLine splits a line typed by a user into tokens, honoring double and single quotes
func SplitCmdLine(line string) ([][]byte, bool) {
	var (
		args    [][]byte
		current []byte
		inToken bool
		quote   byte
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' && i+1 < len(line) {
				i++
				switch line[i] {
				case 'n':
					current = append(current, '\n')
				case 'r':
					current = append(current, '\r')
				case 't':
					current = append(current, '\t')
				default:
					current = append(current, line[i])
				}
			} else if c == quote {
				quote = 0
			} else {
				current = append(current, c)
			}
		case c == '"' || c == '\'':
			quote = c
			inToken = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if inToken {
				if current == nil {
					current = []byte{}
				}
				args = append(args, current)
				current = nil
				inToken = false
			}
		default:
			current = append(current, c)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, false
	}
	if inToken {
		if current == nil {
			current = []byte{}
		}
		args = append(args, current)
	}
	return args, true
}
