package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/studyflow/apps"
	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/core/assignment"
	"github.com/trezcool/studyflow/core/class"
	logsvc "github.com/trezcool/studyflow/services/logger"
)

func main() {
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	if err := conf.CheckSecrets(); err != nil {
		stdLogger.Fatal(err)
	}
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(conf.RollbarToken != "" && !conf.Debug)

	ctx := context.Background()

	// set up the record backend
	backend, err := apps.OpenBackend(ctx, conf, false)
	if err != nil {
		stdLogger.Fatal(err)
	}

	// start CLI
	cli := commandLine{
		conf:          conf,
		backend:       backend,
		assignmentSvc: assignment.NewService(backend.Client, logger),
		classSvc:      class.NewService(backend.Client, logger),
		out:           os.Stdout,
	}
	err = cli.run(ctx, os.Args)
	if cErr := backend.Close(); cErr != nil {
		stdLogger.Printf("closing backend: %v", cErr)
	}
	if err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
