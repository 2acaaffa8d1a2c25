// Package output renders command results on stdout.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"sigs.k8s.io/yaml"
)

const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Table is the tabular view of a result.
type Table struct {
	Header []string
	Rows   [][]string
}

// Write renders v as json or yaml, or t as a table.
func Write(w io.Writer, format string, v any, t Table) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatTable, "":
		tw := tablewriter.NewWriter(w)
		tw.SetHeader(t.Header)
		tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		tw.SetAlignment(tablewriter.ALIGN_LEFT)
		tw.SetAutoWrapText(false)
		tw.SetBorder(false)
		tw.SetCenterSeparator("")
		tw.SetColumnSeparator("")
		tw.SetRowSeparator("")
		tw.SetHeaderLine(false)
		tw.SetTablePadding("  ")
		tw.SetNoWhiteSpace(true)
		tw.AppendBulk(t.Rows)
		tw.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
