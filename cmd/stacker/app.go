package main

import (
	"github.com/urfave/cli/v3"

	"codefloe.com/pat-s/stacker/cli/auth"
	"codefloe.com/pat-s/stacker/cli/common"
	"codefloe.com/pat-s/stacker/cli/setup"
	"codefloe.com/pat-s/stacker/cli/status"
	"codefloe.com/pat-s/stacker/cli/submit"
	"codefloe.com/pat-s/stacker/shared/version"
)

func newApp() *cli.Command {
	app := &cli.Command{}
	app.Name = "stacker"
	app.Description = "A tool for submitting jj bookmarks as stacked pull requests"
	app.Version = version.String()
	app.Usage = "submit jj bookmark stacks as pull requests"
	app.Flags = common.GlobalFlags
	app.Before = common.Before
	app.Suggest = true
	app.Commands = []*cli.Command{
		submit.Command,
		status.Command,
		auth.Command,
		setup.Command,
	}

	// Default action when called without subcommand.
	app.Action = status.Command.Action

	return app
}
