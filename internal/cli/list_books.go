package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
)

// ListBooksCommand prints the filtered catalog as cards or JSON.
type ListBooksCommand struct {
	DatabasePath string
	Filter       catalog.Filter
	JSON         bool
	Verbose      bool

	out io.Writer
}

func NewListBooksCommand() *ListBooksCommand {
	return &ListBooksCommand{out: os.Stdout}
}

func (cmd *ListBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-books", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.Filter.Search, "q", "", "Case-insensitive search over title and summary")
	fs.StringVar(&cmd.Filter.Category, "category", catalog.ShowAll, "Only books in this category")
	fs.StringVar(&cmd.Filter.Language, "language", catalog.ShowAll, "Only books in this language")
	fs.StringVar(&cmd.Filter.Owner, "owner", catalog.ShowAll, "Only books with this owner")
	fs.StringVar(&cmd.Filter.Status, "status", catalog.ShowAll, "Only books with this reading status")
	fs.BoolVar(&cmd.JSON, "json", false, "Print the cards as JSON")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-books [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the books that match every given filter.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s list-books -q desert -category Sci-Fi\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ListBooksCommand) Run() error {
	db, svc, err := openCatalog(cmd.DatabasePath, commandLogger(cmd.Verbose), cmd.Verbose)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := svc.ListBooks(context.Background(), cmd.Filter)
	if err != nil {
		return err
	}
	cards := catalog.NewCards(rows)

	if cmd.JSON {
		enc := json.NewEncoder(cmd.out)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}

	noun := "books"
	if len(cards) == 1 {
		noun = "book"
	}
	fmt.Fprintf(cmd.out, "Showing %d %s\n", len(cards), noun)
	for _, card := range cards {
		writeCard(cmd.out, card)
	}
	return nil
}

func writeCard(w io.Writer, card catalog.Card) {
	fmt.Fprintf(w, "\n%s\n", card.Title)
	fmt.Fprintf(w, "  by %s\n", card.Author)
	fmt.Fprintf(w, "  %s | %s | %s | %s\n", card.Category, card.Language, card.Owner, card.Status)
	if card.HasSummary {
		for _, line := range strings.Split(card.Summary, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
