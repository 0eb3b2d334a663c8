package main

import (
	"context"
	"fmt"
	"strconv"
)

// stats prints the number of classes and assignments, and the pending assignments of each class.
func (cli *commandLine) stats(ctx context.Context) error {
	classes := cli.classSvc.GetAll(ctx)
	asgmts := cli.assignmentSvc.GetAll(ctx)

	pending := make(map[string]int)
	var completed int
	for _, a := range asgmts {
		if a.Completed {
			completed++
			continue
		}
		pending[a.ClassID.String]++ // "" when unassigned
	}

	fmt.Fprintf(cli.out, "backend: %s\n", cli.backend.Driver)
	fmt.Fprintf(cli.out, "classes: %d\n", len(classes))
	fmt.Fprintf(cli.out, "assignments: %d (%d completed)\n", len(asgmts), completed)
	if len(classes) > 0 || pending[""] > 0 {
		fmt.Fprintln(cli.out, "pending by class:")
	}
	for _, cls := range classes {
		fmt.Fprintf(cli.out, "  %s: %d\n", cls.Name, pending[strconv.Itoa(cls.ID)])
	}
	if n := pending[""]; n > 0 {
		fmt.Fprintf(cli.out, "  (no class): %d\n", n)
	}
	return nil
}
