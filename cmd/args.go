package cmd

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// Arg returns the positional argument at index or fallback if it is missing.
func (ca *CommandArgs) Arg(index int, fallback string) string {
	if index < 0 || index >= len(ca.Args) {
		return fallback
	}

	return ca.Args[index]
}

func (ca *CommandArgs) Bool(name string) bool {
	v, _ := ca.Flags[name].(bool)
	return v
}

func (ca *CommandArgs) String(name string) string {
	v, _ := ca.Flags[name].(string)
	return v
}

func (ca *CommandArgs) Int(name string) int64 {
	switch v := ca.Flags[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}

	return 0
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// FlagType defines how the value of a flag is parsed.
type FlagType string

const (
	FlagTypeString FlagType = "string"
	FlagTypeBool   FlagType = "bool"
	FlagTypeInt    FlagType = "int"
)

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string   `json:"name"`              // e.g., "long"
	Short       string   `json:"short"`             // Single-char shorthand (e.g., "l")
	Type        FlagType `json:"type"`              // "string", "bool", "int"
	Default     any      `json:"default,omitempty"` // Default value
	Required    bool     `json:"required"`          // Must be provided
	Description string   `json:"description"`       // Help text
}
