package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/seed"
)

// SeedCommand loads lookup rows and books from a YAML file.
type SeedCommand struct {
	FilePath     string
	DatabasePath string
	Verbose      bool

	out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the YAML seed file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create missing authors, languages, owners and statuses, then add every\n")
		fmt.Fprintf(os.Stderr, "book whose title is not in the catalog yet.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -file catalog.yaml -db ./books.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *SeedCommand) Run() error {
	file, err := seed.Load(cmd.FilePath)
	if err != nil {
		return err
	}

	log := commandLogger(cmd.Verbose)
	db, svc, err := openCatalog(cmd.DatabasePath, log, cmd.Verbose)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(cmd.out, "Seeding %s from %s\n", cmd.DatabasePath, cmd.FilePath)

	result, err := seed.Apply(context.Background(), file, db.CatalogStore().Lookups, svc)
	if err != nil {
		return fmt.Errorf("seed aborted: %w", err)
	}

	fmt.Fprintf(cmd.out, "Lookup rows ensured: %d\n", result.Lookups)
	fmt.Fprintf(cmd.out, "Books created:       %d\n", result.BooksCreated)
	fmt.Fprintf(cmd.out, "Books skipped:       %d (title already present)\n", result.BooksSkipped)
	if len(result.Rejected) > 0 {
		fmt.Fprintf(cmd.out, "Books rejected:      %d\n", len(result.Rejected))
		for _, r := range result.Rejected {
			fmt.Fprintf(cmd.out, "  - %q: %v\n", r.Title, r.Err)
		}
	}
	return nil
}
