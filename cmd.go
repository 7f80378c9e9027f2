package packfs

import (
	"context"
	"io"

	"github.com/mwantia/packfs/cmd"
)

// RegisterCommand adds a custom command next to the builtin commands.
func (fs *fileSystemImpl) RegisterCommand(c cmd.Command) error {
	return fs.cmds.Register(c)
}

// UnregisterCommand removes the command registered as name.
func (fs *fileSystemImpl) UnregisterCommand(name string) (bool, error) {
	if _, err := fs.cmds.Get(name); err != nil {
		return false, nil
	}

	if err := fs.cmds.Unregister(name); err != nil {
		return false, err
	}

	return true, nil
}

func (fs *fileSystemImpl) Commands() []cmd.Command {
	return fs.cmds.List()
}

// Execute runs a command with the given arguments, writing output to the provided writer.
func (fs *fileSystemImpl) Execute(ctx context.Context, writer io.Writer, args ...string) (int, error) {
	fs.log.Debug("Executing command %v", args)
	return fs.cmds.Execute(ctx, writer, args...)
}
