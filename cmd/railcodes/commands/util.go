package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"railcodes/lib/scraper"
	"railcodes/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// asks `prompt` on out and reads a yes/no answer from in, anything but
// "y" or "yes" declines.
func confirm(in io.Reader, out io.Writer) func(prompt string) bool {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

// finds a collector by its name or its slug, "Railway tunnel lengths" can
// also be written "railway-tunnel-lengths".
func findRunner(reg *scraper.Registry, name string) (scraper.Runner, error) {
	if runner, ok := reg.Get(name); ok {
		return runner, nil
	}
	slug := textutil.CacheName(name)
	for _, runner := range reg.Runners() {
		if textutil.CacheName(runner.Name()) == slug {
			return runner, nil
		}
	}
	return nil, fmt.Errorf("unknown cluster %q, run `railcodes clusters` to list them", name)
}
