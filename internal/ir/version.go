package ir

// Version constants for the serialized formats and the tool.
const (
	// WitnessFormatVersion is written into witness metadata.
	WitnessFormatVersion = "2.2"

	// ToolVersion is the precreuse version.
	ToolVersion = "0.1.0"
)
