package docspec

import (
	"strconv"

	"github.com/gactlab/gaction/internal/gtype"
)

// Defaults supplies build-time option defaults from the configuration
// provider.
type Defaults struct {
	// Threads is the default for the short-form `threads` parameter when
	// the action does not declare its own; zero means 1.
	Threads int64
}

// shortForm reserves a single-letter flag for a recognized common parameter
// name and fixes the type the parameter must declare.
type shortForm struct {
	Flag string
	Type gtype.Tag
	// registryDefault supplies a default line form when the action does not
	// declare one, or nil.
	registryDefault func(Defaults) *string
}

// shortForms is the fixed short-form registry.
var shortForms = map[string]shortForm{
	"directory": {Flag: "-d", Type: gtype.TagText},
	"threads": {Flag: "-t", Type: gtype.TagInteger, registryDefault: func(d Defaults) *string {
		n := d.Threads
		if n <= 0 {
			n = 1
		}
		s := strconv.FormatInt(n, 10)
		return &s
	}},
}
