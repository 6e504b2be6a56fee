package generate

import (
	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-ptgen/internal/device"
	"github.com/deploymenttheory/go-ptgen/internal/gpt"
	"github.com/deploymenttheory/go-ptgen/internal/interfaces"
	"github.com/deploymenttheory/go-ptgen/internal/layout"
	"github.com/deploymenttheory/go-ptgen/internal/mbr"
	"github.com/deploymenttheory/go-ptgen/internal/types"
	"github.com/deploymenttheory/go-ptgen/pkg/app"
)

// Plan lays out and encodes the table in memory without touching the output path
func Plan(ctx *app.Context, req *Request) (*Response, error) {
	resp, _, err := build(ctx, req, false)
	return resp, err
}

// Handle plans, encodes and writes the table. Nothing is opened until the whole table
// has been encoded, and a failed write removes the partial image.
func Handle(ctx *app.Context, req *Request) (*Response, error) {
	resp, table, err := build(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, app.NewError(app.ErrCodeIO, "generation cancelled", err)
	}

	log := ctx.Log("generate").WithField("output", req.Output)
	log.Debug("writing image")
	if err := device.WithImage(ctx.Fs, req.Output, table.WriteTo); err != nil {
		return nil, app.Classify("failed to write partition table", err)
	}
	resp.Written = true
	log.WithField("bytes", resp.ImageSize).Debug("image written")

	return resp, nil
}

// NewEncoder returns the table encoder selected by the request
func NewEncoder(req *Request) (interfaces.TableEncoder, error) {
	if req.GPT {
		return gpt.NewEncoder(gpt.Options{
			Geometry:  req.Geometry,
			Alignment: req.Alignment(),
			Signature: req.Signature,
			DiskGUID:  req.GUID,
		})
	}
	return mbr.NewEncoder(req.Geometry, req.Signature)
}

func build(ctx *app.Context, req *Request, writing bool) (*Response, interfaces.PartitionTable, error) {
	if err := req.Validate(writing); err != nil {
		return nil, nil, err
	}

	log := ctx.Log("generate").WithFields(logrus.Fields{
		"table":     req.TableFormat(),
		"heads":     req.Geometry.Heads,
		"sectors":   req.Geometry.SectorsPerTrack,
		"alignment": req.Alignment().String(),
	})

	encoder, err := NewEncoder(req)
	if err != nil {
		return nil, nil, app.Classify("invalid table options", err)
	}

	planner, err := layout.NewPlanner(layout.Options{
		Geometry:    req.Geometry,
		Alignment:   req.Alignment(),
		Active:      req.Active,
		IgnoreEmpty: req.IgnoreEmpty,
		Limits:      encoder.Limits(),
	})
	if err != nil {
		return nil, nil, app.Classify("invalid layout options", err)
	}

	log.WithField("requests", len(req.Partitions)).Debug("planning layout")
	plan, err := planner.Plan(req.Partitions)
	if err != nil {
		return nil, nil, app.Classify("failed to plan partitions", err)
	}

	for _, p := range plan.Partitions {
		log.WithFields(logrus.Fields{
			"partition": p.Slot,
			"start":     p.Offset(),
			"end":       p.EndSector() * types.SectorSize,
			"size":      p.Size(),
		}).Debug("planned partition")
	}

	table, err := encoder.Encode(plan)
	if err != nil {
		return nil, nil, app.Classify("failed to encode partition table", err)
	}

	resp := &Response{
		Table:      encoder.Name(),
		Output:     req.Output,
		Geometry:   req.Geometry,
		Alignment:  req.Alignment().String(),
		AlignKB:    req.AlignKB,
		Active:     planner.Options().Active,
		Signature:  FormatSignature(req.Signature),
		Partitions: make([]PartitionResult, 0, len(plan.Partitions)),
		ImageSize:  table.ImageSize(),
	}
	if req.GPT {
		resp.DiskGUID = req.GUID.String()
	}
	for _, p := range plan.Partitions {
		pr := newPartitionResult(p)
		if req.GPT {
			pr.GUID = req.GUID.Partition(p.Slot).String()
		}
		resp.Partitions = append(resp.Partitions, pr)
	}

	return resp, table, nil
}
