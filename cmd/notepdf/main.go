package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/gompdf/notepdf"
	"github.com/gompdf/notepdf/internal/auth"
	"github.com/gompdf/notepdf/internal/notes"
)

const usage = `usage: notepdf <command> [flags]

commands:
  serve          run the notes HTTP server
  render         render a note file (YAML or JSON) to PDF
  hash-password  print a bcrypt hash for the auth.users config section
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	case "hash-password":
		err = runHashPassword(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Printf("Error: unknown command %q\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var (
		inputFile  string
		outputFile string
		fontPath   string
		wrapWidth  int
		wrapMode   string
		keepEmpty  bool
		verbose    bool
	)
	fs.StringVar(&inputFile, "input", "", "Input note file (YAML or JSON)")
	fs.StringVar(&outputFile, "output", "", "Output PDF file path (default: input name with .pdf)")
	fs.StringVar(&fontPath, "font", "", "Preferred TrueType font file")
	fs.IntVar(&wrapWidth, "wrap", 0, "Characters per remarks line (default 35)")
	fs.StringVar(&wrapMode, "wrap-mode", string(notepdf.WrapModeChars), "Wrap by rune count (char) or display width (display)")
	fs.BoolVar(&keepEmpty, "keep-empty", false, "Keep blank lines in the remarks")
	fs.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	fs.Parse(args)

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		fs.Usage()
		os.Exit(1)
	}
	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + ".pdf"
	}

	note, err := readNote(inputFile)
	if err != nil {
		return err
	}

	opts := []notepdf.Option{
		notepdf.WithDebug(verbose),
		notepdf.WithWrapMode(notepdf.WrapMode(wrapMode)),
		notepdf.WithFontDirectory(filepath.Dir(inputFile)),
		notepdf.WithTitle(string(note.Kind) + " " + note.Event),
		notepdf.WithAuthor(note.User),
	}
	if fontPath != "" {
		opts = append(opts, notepdf.WithFontPath(fontPath))
	}
	if wrapWidth > 0 {
		opts = append(opts, notepdf.WithWrapWidth(wrapWidth))
	}
	if keepEmpty {
		opts = append(opts, notepdf.WithEmptyLines(notepdf.KeepEmpty))
	}

	result, err := notepdf.New(opts...).RenderToFile(note.Record(), outputFile)
	if err != nil {
		return err
	}
	if result.FallbackUsed() {
		fmt.Printf("Warning: preferred font unavailable, used %s\n", result.Font.Family)
	}
	if verbose {
		fmt.Printf("Successfully rendered %s to %s (%d page(s))\n", inputFile, outputFile, result.Pages)
	}
	return nil
}

// readNote loads a note file; YAML is a superset of JSON so both parse
func readNote(path string) (*notes.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note file: %w", err)
	}
	var n notes.Note
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse note file: %w", err)
	}
	if err := n.Prepare(); err != nil {
		return nil, err
	}
	return &n, nil
}

func runHashPassword(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	fs.Parse(args)

	var password string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(pw)
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no password on stdin")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
