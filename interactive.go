package ezctest

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// runInteractive drives a line-oriented prompt on stdin. Each run command
// reports a fresh set of stats; failures are printed but never end the loop.
func (h *Harness) runInteractive(ctx context.Context) error {
	return h.interactiveLoop(ctx, os.Stdin)
}

func (h *Harness) interactiveLoop(ctx context.Context, in io.Reader) error {
	h.printInteractiveBanner()

	scanner := bufio.NewScanner(in)
	for {
		h.printer.Printf("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "exit", "quit":
			h.printer.Printf("Exiting interactive mode...\n")
			return nil
		case "help":
			h.printInteractiveHelp()
		case "list":
			h.withFilter(arg, func() {
				h.listTests() //nolint:errcheck
			})
			h.printer.Printf("\n")
		case "run":
			h.withFilter(arg, func() {
				h.runAll(ctx) //nolint:errcheck
			})
			h.printer.Printf("\n")
		case "repeat":
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				h.printer.Printf("Invalid repeat count\n\n")
				continue
			}
			h.config.Repeat = n
			h.printer.Printf("Repeat count set to %d\n\n", n)
		default:
			h.printer.Printf("Unknown command: %s\n", line)
			h.printer.Printf("Type 'help' for available commands.\n\n")
		}
	}

	if err := scanner.Err(); err != nil {
		return NewRuntimeError(err)
	}
	return nil
}

// withFilter runs fn under a transient filter override. An empty arg keeps
// the configured filter.
func (h *Harness) withFilter(arg string, fn func()) {
	if arg == "" {
		fn()
		return
	}
	prev := h.config.Filter
	h.config.Filter = arg
	fn()
	h.config.Filter = prev
}

func (h *Harness) printInteractiveBanner() {
	h.printer.Printf("\n")
	h.printer.Colored(text.FgCyan, "===========================================")
	h.printer.Colored(text.FgCyan, "  ezctest Interactive Mode")
	h.printer.Colored(text.FgCyan, "===========================================")
	h.printer.Printf("\nCommands:\n")
	h.printer.Printf("  run [filter]    Run tests (optional filter)\n")
	h.printer.Printf("  list            List all tests\n")
	h.printer.Printf("  help            Show this help\n")
	h.printer.Printf("  exit            Exit interactive mode\n")
	h.printer.Printf("\nType 'run' to run all tests, or 'help' for more info.\n\n")
}

func (h *Harness) printInteractiveHelp() {
	h.printer.Printf("\nAvailable commands:\n")
	h.printer.Printf("  run [filter]    Run tests matching filter pattern\n")
	h.printer.Printf("  list [filter]   List tests matching filter pattern\n")
	h.printer.Printf("  repeat N        Set repeat count to N\n")
	h.printer.Printf("  help            Show this help message\n")
	h.printer.Printf("  exit            Exit interactive mode\n")
	h.printer.Printf("\nFilter examples:\n")
	h.printer.Printf("  run MyTest.*\n")
	h.printer.Printf("  run *Fast*\n")
	h.printer.Printf("  list\n\n")
}
