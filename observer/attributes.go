package observer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for pipeline spans and metrics.
var (
	AttrRunK       = attribute.Key("gom.k")
	AttrRunKRange  = attribute.Key("gom.k_range")
	AttrRunStatus  = attribute.Key("gom.status")
	AttrCaseID     = attribute.Key("gom.case_id")
	AttrInputRows  = attribute.Key("gom.input_rows")
	AttrOutputRows = attribute.Key("gom.output_rows")
	AttrDropped    = attribute.Key("gom.dropped_rows")
)
