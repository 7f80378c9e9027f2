package cmd

import (
	"strings"
	"testing"
)

func testFlagSet() *CommandFlagSet {
	return &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"long": {
				Name:  "long",
				Short: "l",
				Type:  FlagTypeBool,
			},
			"all": {
				Name:  "all",
				Short: "a",
				Type:  FlagTypeBool,
			},
			"size": {
				Name:    "size",
				Short:   "n",
				Type:    FlagTypeInt,
				Default: int64(-1),
			},
			"format": {
				Name: "format",
				Type: FlagTypeString,
			},
		},
	}
}

func TestParser(t *testing.T) {
	tests := map[string]struct {
		Raw    []string
		Args   []string
		Long   bool
		All    bool
		Size   int64
		Format string
	}{
		"empty": {
			Raw:  []string{},
			Args: []string{},
			Size: -1,
		},
		"positional": {
			Raw:  []string{"/gfx", "/text"},
			Args: []string{"/gfx", "/text"},
			Size: -1,
		},
		"combined bools": {
			Raw:  []string{"-la", "/gfx"},
			Args: []string{"/gfx"},
			Long: true,
			All:  true,
			Size: -1,
		},
		"long with equals": {
			Raw:    []string{"--size=10", "--format=json", "file"},
			Args:   []string{"file"},
			Size:   10,
			Format: "json",
		},
		"long with separate value": {
			Raw:  []string{"--size", "42", "file"},
			Args: []string{"file"},
			Size: 42,
		},
		"short attached value": {
			Raw:  []string{"-ln16", "file"},
			Args: []string{"file"},
			Long: true,
			Size: 16,
		},
		"short separate value": {
			Raw:  []string{"-n", "8", "file"},
			Args: []string{"file"},
			Size: 8,
		},
		"bool with explicit false": {
			Raw:  []string{"--long=false", "file"},
			Args: []string{"file"},
			Size: -1,
		},
		"double dash": {
			Raw:  []string{"-l", "--", "-a", "--size"},
			Args: []string{"-a", "--size"},
			Long: true,
			Size: -1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(tst *testing.T) {
			args, err := NewParser(testFlagSet()).Parse(test.Raw)
			if err != nil {
				tst.Fatalf("Parse failed: %v", err)
			}

			if strings.Join(args.Args, " ") != strings.Join(test.Args, " ") {
				tst.Errorf("Expected args %v, got %v", test.Args, args.Args)
			}
			if args.Bool("long") != test.Long {
				tst.Errorf("Expected long=%v, got %v", test.Long, args.Bool("long"))
			}
			if args.Bool("all") != test.All {
				tst.Errorf("Expected all=%v, got %v", test.All, args.Bool("all"))
			}
			if args.Int("size") != test.Size {
				tst.Errorf("Expected size=%d, got %d", test.Size, args.Int("size"))
			}
			if args.String("format") != test.Format {
				tst.Errorf("Expected format=%q, got %q", test.Format, args.String("format"))
			}
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := map[string][]string{
		"unknown long":      {"--missing"},
		"unknown short":     {"-x"},
		"missing value":     {"--size"},
		"missing short val": {"-n"},
		"value is flag":     {"--format", "-l"},
		"invalid int":       {"--size=ten"},
		"invalid bool":      {"--long=maybe"},
	}

	for name, raw := range tests {
		t.Run(name, func(tst *testing.T) {
			if _, err := NewParser(testFlagSet()).Parse(raw); err == nil {
				tst.Errorf("Expected error for %v", raw)
			}
		})
	}
}

func TestParser_Required(t *testing.T) {
	flagSet := &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"target": {
				Name:     "target",
				Short:    "t",
				Type:     FlagTypeString,
				Default:  "/",
				Required: true,
			},
		},
	}

	// A default value does not satisfy a required flag
	_, err := NewParser(flagSet).Parse([]string{})
	if err == nil || !strings.Contains(err.Error(), "-t / --target") {
		t.Fatalf("Expected required flag error, got %v", err)
	}

	args, err := NewParser(flagSet).Parse([]string{"-t", "/gfx"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if args.String("target") != "/gfx" {
		t.Errorf("Expected '/gfx', got '%s'", args.String("target"))
	}
}
