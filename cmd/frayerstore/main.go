package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nomadicTree/frayerstore/internal/app"
	"github.com/nomadicTree/frayerstore/internal/importer"
)

const usage = `usage: frayerstore <command> [flags]

commands:
  import FILE...        import subject hierarchy files, one transaction per file
  import-words FILE...  import words files against an existing hierarchy
  migrate               create or update the database schema
  serve                 run the browse API
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "import":
		return runImport(ctx, rest, out, false)
	case "import-words":
		return runImport(ctx, rest, out, true)
	case "migrate":
		return runMigrate(ctx, rest)
	case "serve":
		return runServe(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprintf(out, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

func runImport(ctx context.Context, args []string, out io.Writer, words bool) error {
	name := "import"
	if words {
		name = "import-words"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintf(out, "%s: at least one FILE is required\n", name)
		return errUsage
	}

	application, err := app.New(ctx, true)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	im := application.Importer()
	report := importer.NewReport()
	if words {
		for _, p := range paths {
			if _, err = im.ImportWordsFile(ctx, p, report); err != nil {
				break
			}
		}
	} else {
		_, err = im.ImportFiles(ctx, paths, report)
	}
	fmt.Fprint(out, report.Summary())
	if err != nil && !importer.IsDataError(err) {
		application.Log.Error("Import failed", "error", err)
	}
	return err
}

func runMigrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	application, err := app.New(ctx, true)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	application.Log.Info("Schema up to date")
	application.Close()
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (defaults to HTTP_ADDR)")
	migrate := fs.Bool("migrate", true, "run schema migration before serving")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	application, err := app.New(ctx, *migrate)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer application.Close()

	listen := application.Cfg.HTTPAddr
	if *addr != "" {
		listen = *addr
	}
	server := application.Server()

	g, gctx := errgroup.WithContext(ctx)
	if err := application.WatchImports(gctx); err != nil {
		return fmt.Errorf("watch imports: %w", err)
	}
	g.Go(func() error {
		application.Log.Info("Serving browse API", "addr", listen)
		return server.Run(listen)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		application.Log.Info("Shutting down browse API")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
