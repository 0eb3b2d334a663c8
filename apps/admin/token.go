package main

import (
	"fmt"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/studyflow/apps/api/echo"
	"github.com/trezcool/studyflow/core"
)

func (cli *commandLine) token(p core.Person) error {
	token, err := echoapi.GenerateToken(cli.conf, p)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
