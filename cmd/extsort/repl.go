package main

import (
	"fmt"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/xtxerr/extsort/internal/config"
)

const replHelp = `Enter a sort request:
  MODE m k r n v1 ... vn   MODE is B (balanced), P (polyphase) or C (cascade)
  v1 ... vn                sort with the configured strategy
  help                     show this text
  exit                     leave`

var replSuggestions = []prompt.Suggest{
	{Text: "B", Description: "balanced merge"},
	{Text: "P", Description: "polyphase merge"},
	{Text: "C", Description: "cascade merge"},
	{Text: "help", Description: "show request format"},
	{Text: "exit", Description: "leave"},
}

// repl reads requests interactively until exit.
type repl struct {
	d        *driver
	defaults config.SortConfig
}

func (r *repl) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "help", "?":
		fmt.Fprintln(r.d.out, replHelp)
		return
	case "exit", "quit":
		return
	}

	req, err := ParseRequest(fields, r.defaults)
	if err == nil {
		err = r.d.process(req)
	}
	if err != nil {
		fmt.Fprintf(r.d.out, "error: %v\n", err)
	}
}

func (r *repl) complete(doc prompt.Document) []prompt.Suggest {
	// Only the first word has suggestions.
	if strings.Contains(doc.TextBeforeCursor(), " ") {
		return nil
	}
	return prompt.FilterHasPrefix(replSuggestions, doc.GetWordBeforeCursor(), true)
}

func isExit(in string, breakline bool) bool {
	if !breakline {
		return false
	}
	switch strings.TrimSpace(in) {
	case "exit", "quit":
		return true
	}
	return false
}

func (r *repl) run() {
	fmt.Fprintln(r.d.out, replHelp)

	p := prompt.New(
		r.execute,
		r.complete,
		prompt.OptionPrefix("extsort> "),
		prompt.OptionTitle("extsort"),
		prompt.OptionSetExitCheckerOnInput(isExit),
	)
	p.Run()
}
