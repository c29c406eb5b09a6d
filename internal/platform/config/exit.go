package config

import (
	"fmt"
	"log"
	"os"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// The message carries the caller's log prefix ("[ROLL] ", "[MCP] ") so
// fatal output reads like the rest of the command's logging.
func Exitf(format string, args ...any) {
	fmt.Fprint(os.Stderr, log.Prefix())
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
