package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Parser parses user-defined arguments into flags
type Parser struct {
	flagSet *CommandFlagSet
}

func NewParser(flagSet *CommandFlagSet) *Parser {
	if flagSet == nil {
		flagSet = &CommandFlagSet{}
	}

	return &Parser{
		flagSet: flagSet,
	}
}

func (cp *Parser) Parse(raw []string) (*CommandArgs, error) {
	args := &CommandArgs{
		Args:  make([]string, 0),
		Flags: make(map[string]any),
		Raw:   raw,
	}

	for flagName, flag := range cp.flagSet.Flags {
		if flag.Default != nil {
			args.Flags[flagName] = flag.Default
		}
	}

	longToName := make(map[string]string)
	shortToName := make(map[string]string)
	for flagName, flag := range cp.flagSet.Flags {
		longToName[flag.Name] = flagName
		if flag.Short != "" {
			shortToName[flag.Short] = flagName
		}
	}

	// Explicitly provided flags, defaults do not satisfy required flags
	provided := make(map[string]bool)

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			args.Args = append(args.Args, raw[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "--") {
			key, value, hasValue := parseLongFlag(arg)
			flagName, exists := longToName[key]
			if !exists {
				return nil, fmt.Errorf("unknown flag: --%s", key)
			}

			flag := cp.flagSet.Flags[flagName]
			switch {
			case flag.Type == FlagTypeBool && !hasValue:
				value = "true"
			case hasValue:
			case i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-"):
				value = raw[i+1]
				i++
			default:
				return nil, fmt.Errorf("flag --%s requires a value", key)
			}

			v, err := coerce(value, flag.Type)
			if err != nil {
				return nil, fmt.Errorf("invalid value for --%s: %w", key, err)
			}
			args.Flags[flagName] = v
			provided[flagName] = true
			continue
		}

		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			shortFlags := arg[1:]

			for j, shortChar := range shortFlags {
				shortStr := string(shortChar)
				flagName, exists := shortToName[shortStr]
				if !exists {
					return nil, fmt.Errorf("unknown flag: -%s", shortStr)
				}

				flag := cp.flagSet.Flags[flagName]
				provided[flagName] = true

				if flag.Type == FlagTypeBool {
					args.Flags[flagName] = true
					continue
				}

				// Value either follows directly (-n10) or as next argument (-n 10)
				var value string
				if j+len(shortStr) < len(shortFlags) {
					value = shortFlags[j+len(shortStr):]
				} else if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
					value = raw[i+1]
					i++
				} else {
					return nil, fmt.Errorf("flag -%s requires a value", shortStr)
				}

				v, err := coerce(value, flag.Type)
				if err != nil {
					return nil, fmt.Errorf("invalid value for -%s: %w", shortStr, err)
				}
				args.Flags[flagName] = v
				break
			}
			continue
		}

		args.Args = append(args.Args, arg)
	}

	required := make([]string, 0)
	for flagName, flag := range cp.flagSet.Flags {
		if flag.Required && !provided[flagName] {
			required = append(required, flagName)
		}
	}
	if len(required) > 0 {
		sort.Strings(required)
		flag := cp.flagSet.Flags[required[0]]
		if flag.Short != "" {
			return nil, fmt.Errorf("required flag: -%s / --%s", flag.Short, flag.Name)
		}
		return nil, fmt.Errorf("required flag: --%s", flag.Name)
	}

	return args, nil
}

func parseLongFlag(arg string) (key, value string, hasValue bool) {
	arg = strings.TrimPrefix(arg, "--")
	if idx := strings.Index(arg, "="); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

func coerce(value string, flagType FlagType) (any, error) {
	switch flagType {
	case FlagTypeInt:
		return strconv.ParseInt(value, 10, 64)
	case FlagTypeBool:
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean '%s'", value)
	default:
		return value, nil
	}
}
