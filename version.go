package shapeguard

import _ "embed"

// Version is the released version of shapeguard.
//
//go:embed VERSION
var Version string
