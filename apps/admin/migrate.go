package main

import (
	"github.com/trezcool/studyflow/apps"
	"github.com/trezcool/studyflow/storage/database"
)

var gooseRunFunc = database.RunMigration // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.backend == nil || cli.backend.DB == nil {
		return apps.NewArgumentError("migrations only apply to the postgres backend")
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.backend.DB.DB, arguments...)
}
