package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 1 << 20

var errNoInput = errors.New("no transmission given (use --hex, FILE or stdin)")

// readInput picks the transmission text from the --hex flag, the first
// non-empty line of FILE, or the first non-empty line of stdin, in that order.
func readInput(hex string, args []string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(hex) != "" {
		return hex, nil
	}
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return firstLine(f)
	}
	if stdin == nil {
		return "", errNoInput
	}
	return firstLine(stdin)
}

func firstLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", errNoInput
}
