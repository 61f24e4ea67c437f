package app

import (
	"github.com/gactlab/gaction/internal/registry"
	"github.com/gactlab/gaction/modules/mapkit"
	"github.com/gactlab/gaction/modules/tablekit"
	"github.com/gactlab/gaction/modules/textkit"
)

// coreModules lists the client modules compiled into the default binary.
var coreModules = []registry.Module{
	&textkit.Module{},
	&tablekit.Module{},
	&mapkit.Module{},
}
