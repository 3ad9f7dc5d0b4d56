package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovidiuiliescu/epubreader/internal/epub"
	"github.com/ovidiuiliescu/epubreader/internal/reader"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "epubreader",
	Short: "Inspect and search EPUB files",
	Long: `epubreader loads an EPUB archive, reconstructs its reading order
from the navigation document, and exposes the result for inspection:
book metadata, the table of contents, chapter content, and in-book
full-text search.`,
	SilenceUsage: true,
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print book metadata and table of contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := loadBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		md := book.Metadata
		fmt.Printf("Title:     %s\n", md.Title)
		fmt.Printf("Author:    %s\n", md.Author)
		if md.Publisher != "" {
			fmt.Printf("Publisher: %s\n", md.Publisher)
		}
		if md.Language != "" {
			fmt.Printf("Language:  %s\n", md.Language)
		}
		fmt.Printf("ID:        %s\n", md.ID)
		fmt.Printf("Chapters:  %d\n", len(book.Chapters))
		if book.Cover != nil {
			fmt.Printf("Cover:     %s (%s, %d bytes)\n", book.Cover.Path, book.Cover.MediaType, len(book.Cover.Data))
		}

		if len(book.Nav.Points) > 0 {
			fmt.Printf("\nTable of contents (%s):\n", book.Nav.Format)
			printNavPoints(book.Nav.Points, "  ")
		} else {
			fmt.Println("\nNo table of contents.")
		}
		return nil
	},
}

var chapterCmd = &cobra.Command{
	Use:   "chapter <file> <index>",
	Short: "Print the content of one chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := loadBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		var index int
		if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
			return fmt.Errorf("invalid chapter index %q", args[1])
		}
		ch := book.Chapter(index)
		if ch == nil {
			return fmt.Errorf("chapter index %d out of range (0-%d)", index, len(book.Chapters)-1)
		}

		fmt.Printf("# %s (%s)\n\n%s\n", ch.Title, ch.Href, ch.Content)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <file> <query>",
	Short: "Search the book's text for a query string",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := loadBook(args[0])
		if err != nil {
			return err
		}
		defer book.Close()

		results := reader.Search(args[1], book.Chapters)
		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, res := range results {
			fmt.Printf("[%d] %s (match %d)\n    %s\n",
				res.ChapterIndex, res.ChapterTitle, res.MatchIndex, res.Excerpt)
		}
		return nil
	},
}

// loadBook reads the file into memory and runs it through the pipeline.
func loadBook(path string) (*reader.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	r := reader.New(reader.Options{Logger: logger})
	return r.Load(data, path, nil)
}

func printNavPoints(points []epub.NavPoint, indent string) {
	for _, np := range points {
		fmt.Printf("%s%s (%s)\n", indent, np.Title, np.Href)
		printNavPoints(np.Children, indent+"  ")
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline diagnostics")
	rootCmd.AddCommand(infoCmd, chapterCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
