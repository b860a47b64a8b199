package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	heading = color.New(color.Bold).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	bad     = color.New(color.FgRed).SprintFunc()
)

// table writes tab-separated rows aligned into columns.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

// signed colors a number green when favourable and red otherwise.
func signed(s string, favourable bool) string {
	if favourable {
		return good(s)
	}
	return bad(s)
}
