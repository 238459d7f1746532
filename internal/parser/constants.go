package parser

const (
	// Parameter keys assigned by the annotation grammar
	ParamIndex    = "index"
	ParamSource   = "source"
	ParamProperty = "property"
	ParamName     = "name"

	// Flag keys assigned by the annotation grammar
	FlagThrough = "Through"
)
