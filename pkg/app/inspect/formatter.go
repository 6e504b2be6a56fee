package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput formats inspection results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		encoder.SetIndent(2)
		return encoder.Encode(response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatTable(w io.Writer, response *Response) error {
	fmt.Fprintf(w, "Image:     %s (%d bytes)\n", response.Path, response.Size)
	fmt.Fprintf(w, "Table:     %s\n", response.Table)
	fmt.Fprintf(w, "Signature: %s\n", response.Signature)
	if g := response.GPT; g != nil {
		fmt.Fprintf(w, "Disk GUID: %s\n", g.DiskGUID)
		fmt.Fprintf(w, "Headers:   primary LBA %d, backup LBA %d\n", g.PrimaryLBA, g.BackupLBA)
		fmt.Fprintf(w, "Usable:    LBA %d-%d\n", g.FirstUsableLBA, g.LastUsableLBA)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if response.GPT != nil {
		fmt.Fprintf(tw, "SLOT\tFIRST\tLAST\tSIZE\tTYPE\tGUID\n")
		for _, p := range response.Partitions {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\n", p.Slot, p.FirstSector, p.LastSector, p.Size, p.Type, p.GUID)
		}
	} else {
		fmt.Fprintf(tw, "SLOT\tBOOT\tFIRST\tLAST\tSIZE\tTYPE\tCHS START\tCHS END\n")
		for _, p := range response.Partitions {
			boot := ""
			if p.Active {
				boot = "*"
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
				p.Slot, boot, p.FirstSector, p.LastSector, p.Size, p.Type, p.StartCHS, p.EndCHS)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	if response.Valid {
		fmt.Fprintln(w, "Status: OK")
		return nil
	}
	fmt.Fprintln(w, "Status: INVALID")
	for _, p := range response.Problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	return nil
}
