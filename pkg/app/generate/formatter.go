package generate

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// WriteReport writes the byte offset and byte length of every emitted partition, each
// on its own line, in slot order. Build scripts parse this output.
func WriteReport(w io.Writer, response *Response) error {
	for _, p := range response.Partitions {
		if _, err := fmt.Fprintf(w, "%d\n%d\n", p.Start, p.Size); err != nil {
			return err
		}
	}
	return nil
}

// FormatOutput formats a planned layout according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats the layout as a table
func formatTable(w io.Writer, response *Response) error {
	fmt.Fprintf(w, "Table:     %s\n", response.Table)
	fmt.Fprintf(w, "Geometry:  %d heads, %d sectors/track\n", response.Geometry.Heads, response.Geometry.SectorsPerTrack)
	if response.AlignKB != 0 {
		fmt.Fprintf(w, "Alignment: %d KB\n", response.AlignKB)
	} else {
		fmt.Fprintf(w, "Alignment: %s\n", response.Alignment)
	}
	fmt.Fprintf(w, "Signature: %s\n", response.Signature)
	if response.DiskGUID != "" {
		fmt.Fprintf(w, "Disk GUID: %s\n", response.DiskGUID)
	}
	fmt.Fprintf(w, "Image:     %s\n\n", formatBytes(response.ImageSize))

	if len(response.Partitions) == 0 {
		fmt.Fprintln(w, "No partitions.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "SLOT\tSTART\tSIZE\tSECTORS\tTYPE\tACTIVE\n")
	fmt.Fprintf(tw, "----\t-----\t----\t-------\t----\t------\n")
	for _, p := range response.Partitions {
		active := ""
		if p.Active {
			active = "*"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d-%d\t%s\t%s\n",
			p.Slot, p.Start, formatBytes(int64(p.Size)), p.StartSector, p.StartSector+p.LengthSectors-1, p.Type, active)
	}
	return tw.Flush()
}

// formatJSON formats the layout as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats the layout as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	n := len(response.Partitions)
	summary := fmt.Sprintf("%s table with %d partition", response.Table, n)
	if n != 1 {
		summary += "s"
	}
	summary += fmt.Sprintf(", image %s", formatBytes(response.ImageSize))
	if response.Written {
		summary += " written to " + response.Output
	}
	return summary
}

// formatBytes formats byte count as human readable
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
