package sources

import (
	"context"

	"github.com/mitchellh/mapstructure"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

// Static serves category values written directly in the indicator options,
// for published figures that have no API.
type Static struct{}

var _ dashboard.CategorySource = Static{}

type staticOptions struct {
	Categories []dashboard.CategoryValue `mapstructure:"categories"`
}

// FetchCategories returns the configured categories. Options without
// categories are reported as unavailable.
func (Static) FetchCategories(_ context.Context, q dashboard.CategoryQuery) ([]dashboard.CategoryValue, bool) {
	var opts staticOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil || decoder.Decode(q.Options) != nil {
		return nil, false
	}
	if len(opts.Categories) == 0 {
		return nil, false
	}
	return opts.Categories, true
}
