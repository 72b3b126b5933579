package config

import _ "embed"

// SampleYAML is the bundled config template "setup" copies to the live
// config path if one is not already present.
//
//go:embed sample.yaml
var SampleYAML string
