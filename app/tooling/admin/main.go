// This program performs administrative tasks for the ledger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	log.Infow("admin", "version", build)

	return processCommands(context.Background(), os.Args, log)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(ctx context.Context, args []string, log *zap.SugaredLogger) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: admin genesis <difficulty> | admin verify <url> <difficulty>")
	}

	ev := func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	switch args[1] {
	case "genesis":
		if err := commands.Genesis(ctx, os.Stdout, args, ev); err != nil {
			return fmt.Errorf("mining genesis: %w", err)
		}
	case "verify":
		if err := commands.Verify(ctx, os.Stdout, args, ev); err != nil {
			return fmt.Errorf("verifying chain: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
