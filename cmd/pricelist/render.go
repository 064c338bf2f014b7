package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rogerio-castellano/invoice-pricelist/internal/client/i18n"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/pricelist"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func printRows(w io.Writer, tr i18n.Translator, rows []pricelist.Row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ARTICLE NO\tPRODUCT/SERVICE\tIN PRICE\tPRICE\tUNIT\tIN STOCK\tDESCRIPTION\t")
	for _, r := range rows {
		status := ""
		switch {
		case r.Unsynced:
			status = "! " + tr.T(i18n.Unsaved)
		case r.Dirty:
			status = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Product, r.InPrice, r.Price, r.Unit, r.InStock, r.Description, status)
	}
	_ = tw.Flush()
}

func recordText(r models.ProductRecord) string {
	var b strings.Builder
	for _, f := range models.EditableFields {
		fmt.Fprintf(&b, "%s: %s\n", f, r.Get(f))
	}
	return b.String()
}

// renderPreview shows the change from before to after as a line diff.
func renderPreview(before, after models.ProductRecord) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(recordText(before), recordText(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s (server)\n+++ %s (edited)\n", before.ID, after.ID)
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
		}
	}
	return out.String()
}
