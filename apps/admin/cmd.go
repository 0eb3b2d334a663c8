package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/studyflow/apps"
	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/core/assignment"
	"github.com/trezcool/studyflow/core/class"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf          *core.Config
	backend       *apps.Backend
	assignmentSvc assignment.ServiceInterface
	classSvc      class.ServiceInterface
	out           io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the postgres backend")
	fmt.Fprintln(cli.out, "  stats - count classes and assignments seen through the configured backend")
	fmt.Fprintln(cli.out, "  token -sub SUBJECT [-username USERNAME] [-email EMAIL] - issue an API bearer token")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenSub := tokenCmd.String("sub", "", "The token subject (user id).")
	tokenUname := tokenCmd.String("username", "", "The user's username.")
	tokenEmail := tokenCmd.String("email", "", "The user's email.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "stats":
		return cli.stats(ctx)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenSub == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(core.Person{ID: *tokenSub, Username: *tokenUname, Email: *tokenEmail})
	default:
		cli.printUsage()
		return errHelp
	}
}
