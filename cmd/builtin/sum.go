package builtin

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/mwantia/packfs/cmd"
	"github.com/zeebo/blake3"
)

// SumCommand prints the BLAKE3 digest of files.
type SumCommand struct {
}

func (s *SumCommand) Name() string {
	return "sum"
}

func (s *SumCommand) Description() string {
	return "Print BLAKE3 checksums"
}

func (s *SumCommand) Usage() string {
	return "sum <path>..."
}

func (s *SumCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("usage: %s", s.Usage())
	}

	for _, path := range args.Args {
		digest, err := sum(ctx, api, path)
		if err != nil {
			return 1, err
		}

		fmt.Fprintf(writer, "%s  %s\n", digest, path)
	}

	return 0, nil
}

func (s *SumCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

func sum(ctx context.Context, api cmd.API, path string) (string, error) {
	rc, err := api.OpenFile(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, rc); err != nil {
		return "", fmt.Errorf("failed to read '%s': %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
