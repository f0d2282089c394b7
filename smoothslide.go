package smoothslide

import _ "embed"

//go:embed VERSION
var Version string

//go:embed smoothslide.toml
var DefaultConfig string
