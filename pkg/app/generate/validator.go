package generate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-ptgen/internal/config"
	"github.com/deploymenttheory/go-ptgen/internal/geometry"
	"github.com/deploymenttheory/go-ptgen/internal/guid"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
	"github.com/deploymenttheory/go-ptgen/internal/sizes"
	"github.com/deploymenttheory/go-ptgen/internal/types"
	"github.com/deploymenttheory/go-ptgen/pkg/app"
)

// ParseTypeCode parses a hexadecimal MBR type code, with or without a 0x prefix
func ParseTypeCode(text string) (uint8, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	code, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid partition type %q: must be a hex byte", text)
	}
	return uint8(code), nil
}

// FromConfig converts loaded settings into a request. Size strings that do not parse
// become empty partitions and are returned as warnings, so -n still skips them and
// otherwise planning rejects them.
func FromConfig(cfg *config.Config) (*Request, []string, error) {
	req := &Request{
		Output:      cfg.Output,
		Geometry:    geometry.Geometry{Heads: cfg.Heads, SectorsPerTrack: cfg.Sectors},
		AlignKB:     cfg.AlignKB,
		Active:      layout.NormalizeActive(cfg.Active),
		GPT:         cfg.GPT,
		IgnoreEmpty: cfg.IgnoreEmpty,
		Partitions:  make([]layout.Request, 0, len(cfg.Partitions)),
	}

	sig := types.DefaultSignature
	if cfg.Signature != "" {
		v, err := sizes.ParseUint(cfg.Signature, 32)
		if err != nil {
			return nil, nil, app.NewError(app.ErrCodeInvalidIdentity, "invalid disk signature", err)
		}
		sig = uint32(v)
	}
	req.Signature = sig

	if cfg.GUID != "" {
		g, err := guid.Parse(cfg.GUID)
		if err != nil {
			return nil, nil, app.NewError(app.ErrCodeInvalidIdentity, "Invalid guid string", err)
		}
		req.GUID = g
	} else {
		req.GUID = guid.FromSignature(sig)
	}

	var warnings []string
	for i, p := range cfg.Partitions {
		typeCode := types.DefaultTypeCode
		if p.Type != "" {
			code, err := ParseTypeCode(p.Type)
			if err != nil {
				return nil, nil, app.NewError(app.ErrCodeUsage, fmt.Sprintf("partition %d", i), err)
			}
			typeCode = code
		}

		size, err := sizes.ParseKilobytes(p.Size)
		if err != nil {
			if !errors.Is(err, sizes.ErrGarbage) {
				return nil, nil, app.NewError(app.ErrCodeUsage, fmt.Sprintf("partition %d", i), err)
			}
			warnings = append(warnings, fmt.Sprintf("partition %d: %v", i, err))
		}
		req.Partitions = append(req.Partitions, layout.Request{SizeKB: size, TypeCode: typeCode})
	}

	return req, warnings, nil
}

// Validate validates a generate request. writing is false for dry runs, which do not
// need an output path.
func (r *Request) Validate(writing bool) error {
	if writing && r.Output == "" {
		return app.NewError(app.ErrCodeUsage, "output file is required", nil)
	}
	if err := r.Geometry.Validate(); err != nil {
		return app.NewError(app.ErrCodeUsage, "heads and sectors are required", err)
	}
	if r.Active < 0 || r.Active > types.MaxActive {
		return app.NewError(app.ErrCodeUsage, fmt.Sprintf("active partition must be between 0 and %d", types.MaxActive), nil)
	}

	limits := layout.MBRLimits
	if r.GPT {
		limits = layout.GPTLimits
	}
	if len(r.Partitions) > limits.MaxPartitions {
		return app.NewError(app.ErrCodeTooManyPartitions, "Too many partitions",
			fmt.Errorf("%w: %d requested, %s tables hold %d", layout.ErrTooManyPartitions, len(r.Partitions), limits.Name, limits.MaxPartitions))
	}
	if r.Geometry.SectorsPerTrack < limits.MinSectorsPerTrack {
		return app.NewError(app.ErrCodeInvalidGeometry, "sectors per track too small",
			fmt.Errorf("%w: %s tables need at least %d sectors per track", geometry.ErrInvalidGeometry, limits.Name, limits.MinSectorsPerTrack))
	}
	return nil
}
