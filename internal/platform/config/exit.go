package config

import (
	"fmt"
	"os"
)

// Exitf prints the formatted message to stderr and exits with status 1.
// Commands call it for unusable configuration, before any run starts.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
