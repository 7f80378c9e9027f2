// Package builtin provides the default commands available on every filesystem.
package builtin

import (
	"github.com/mwantia/packfs/cmd"
)

// Commands returns a new instance of every builtin command.
func Commands() []cmd.Command {
	return []cmd.Command{
		&CatCommand{},
		&LsCommand{},
		&MountsCommand{},
		&StatCommand{},
		&SumCommand{},
		&WhichCommand{},
	}
}

// Register registers all builtin commands with m.
func Register(m *cmd.Manager) error {
	for _, c := range Commands() {
		if err := m.Register(c); err != nil {
			return err
		}
	}

	return nil
}
