package inspect

import (
	"github.com/deploymenttheory/go-ptgen/pkg/app"
)

// Validate validates an inspection request
func (r *Request) Validate() error {
	if r.ImagePath == "" {
		return app.NewError(app.ErrCodeUsage, "image path is required", nil)
	}
	return nil
}
