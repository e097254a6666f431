// Command yamltok inspects and re-emits YAML documents using the yamltok
// factory.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"github.com/tokfmt/yamltok"
)

type cli struct {
	Verbose bool `short:"v" help:"Enable debug logging."`

	Detect detectCmd `cmd:"" help:"Report how confidently each file looks like YAML."`
	Recode recodeCmd `cmd:"" help:"Re-emit a document with the configured style."`
}

type detectCmd struct {
	Window int      `default:"512" help:"Lookahead window size in bytes."`
	Files  []string `arg:"" type:"existingfile" help:"Files to sniff."`
}

func (c *detectCmd) Run(logger *slog.Logger) error {
	for _, path := range c.Files {
		strength, err := sniffFile(path, c.Window)
		if err != nil {
			return err
		}
		logger.Debug("sniffed", "file", path, "window", c.Window)
		fmt.Printf("%s\t%s\n", path, strength)
	}
	return nil
}

func sniffFile(path string, window int) (yamltok.MatchStrength, error) {
	fh, err := os.Open(path)
	if err != nil {
		return yamltok.NoMatch, err
	}
	defer fh.Close()
	buf := make([]byte, window)
	n, err := io.ReadFull(fh, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return yamltok.NoMatch, err
	}
	return yamltok.Detect(buf[:n]), nil
}

type recodeCmd struct {
	Indent     int    `default:"2" help:"Indentation width."`
	DocMarkers bool   `default:"true" negatable:"" help:"Emit explicit document markers."`
	Literal    bool   `help:"Emit multiline scalars in literal block style."`
	Quote      bool   `help:"Double-quote all string scalars."`
	Gzip       bool   `help:"Accept gzip-compressed input."`
	File       string `arg:"" type:"existingfile" help:"File to re-emit."`
}

func (c *recodeCmd) Run(logger *slog.Logger) error {
	opts := []yamltok.Option{yamltok.WithIndent(c.Indent)}
	if c.Gzip {
		opts = append(opts, yamltok.WithInputDecorator(yamltok.GzipInputDecorator{}))
	}
	f, err := yamltok.New(opts...)
	if err != nil {
		return err
	}
	f.ConfigureWrite(yamltok.WriteDocStartMarker, c.DocMarkers)
	f.ConfigureWrite(yamltok.LiteralBlockStyle, c.Literal)
	f.ConfigureWrite(yamltok.AlwaysQuoteStrings, c.Quote)
	f.DisableWrite(yamltok.AutoCloseTarget)

	r, err := f.ReaderForFile(c.File)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := f.WriterFor(os.Stdout)
	if err != nil {
		return err
	}

	count := 0
	for {
		tok, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := w.WriteToken(tok); err != nil {
			return err
		}
		count++
	}
	logger.Debug("recoded", "file", c.File, "tokens", count)
	return w.Close()
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("yamltok"),
		kong.Description("Sniff and re-emit YAML documents."),
	)

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

	ctx.FatalIfErrorf(ctx.Run(logger))
}
