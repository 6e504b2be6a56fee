package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/deploymenttheory/go-ptgen/internal/config"
	"github.com/deploymenttheory/go-ptgen/pkg/app/generate"
)

// partitionList collects -p values together with the -t value in force when each was
// given, so "-t ef -p 16M -t 83 -p 64M" keeps its order.
type partitionList struct {
	currentType string
	partitions  []config.Partition
}

type typeValue struct {
	list *partitionList
}

var _ pflag.Value = (*typeValue)(nil)

func (t *typeValue) Set(s string) error {
	if _, err := generate.ParseTypeCode(s); err != nil {
		return err
	}
	t.list.currentType = s
	return nil
}

func (t *typeValue) String() string {
	if t.list.currentType == "" {
		return generate.FormatType(0x83)
	}
	return t.list.currentType
}

func (t *typeValue) Type() string {
	return "hex"
}

type partitionValue struct {
	list *partitionList
}

var _ pflag.Value = (*partitionValue)(nil)

func (p *partitionValue) Set(s string) error {
	p.list.partitions = append(p.list.partitions, config.Partition{Size: s, Type: p.list.currentType})
	return nil
}

func (p *partitionValue) String() string {
	sizes := make([]string, len(p.list.partitions))
	for i, part := range p.list.partitions {
		sizes[i] = part.Size
	}
	return "[" + strings.Join(sizes, ",") + "]"
}

func (p *partitionValue) Type() string {
	return "size"
}

// layoutFlags are the flags shared by the root command and plan
type layoutFlags struct {
	list partitionList
}

// flagKeys maps config keys onto the flags that override them
var flagKeys = map[string]string{
	"output":       "output",
	"heads":        "heads",
	"sectors":      "sectors",
	"align_kb":     "align-kb",
	"active":       "active",
	"signature":    "signature",
	"guid":         "guid",
	"gpt":          "gpt",
	"ignore_empty": "ignore-empty",
	"verbose":      "verbose",
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	// -h is heads, so help gets no shorthand
	fs.Bool("help", false, "help for ptgen")

	fs.StringP("output", "o", "", "output image file")
	fs.Uint32P("heads", "h", 0, "number of heads")
	fs.Uint32P("sectors", "s", 0, "sectors per track")
	fs.Uint64P("align-kb", "l", 0, "align partition starts to this many KB instead of cylinders")
	fs.IntP("active", "a", 1, "active partition slot, 1-4 (0 for none)")
	fs.StringP("signature", "S", "", "disk signature (default 0x5452574F)")
	fs.StringP("guid", "G", "", "disk GUID (default derived from the signature)")
	fs.BoolP("gpt", "g", false, "write a GUID partition table instead of an MBR")
	fs.BoolP("ignore-empty", "n", false, "skip partitions with a size of 0")
	fs.VarP(&typeValue{list: &f.list}, "type", "t", "hex type code for the following partitions")
	fs.VarP(&partitionValue{list: &f.list}, "partition", "p", "partition size in KB, or with a K, M or G suffix (repeatable)")
}
