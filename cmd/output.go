package cmd

import (
	"romkit/infrastructure/console"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

func newPrinter(output OutputWriter, noColor bool) *console.Printer {
	return console.New(output, noColor)
}
