package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/halvorsen/quill"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "import":
		if err := runImport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("quill %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", quill.EnvOr("DATABASE_PATH", "data/content.db"), "path to the content database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: quill import [-db path] <directory>")
	}
	dir := fs.Arg(0)

	store, err := quill.NewStore(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	n, err := quill.ImportDir(store, dir)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d post(s) from %s\n", n, dir)
	return nil
}

func printUsage() {
	fmt.Println(`quill - content management engine

Usage:
  quill import [-db path] <directory>   Import markdown files with YAML frontmatter
  quill version                         Print version
  quill help                            Show this help`)
}
