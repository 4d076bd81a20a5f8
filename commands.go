package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/givxl33t/torrentinfo-go/bencode"
	"github.com/givxl33t/torrentinfo-go/report"
	"github.com/givxl33t/torrentinfo-go/torrentparser"
)

type runner struct {
	log      *zap.Logger
	maxDepth int
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// reportFlags are accepted both by the root command and by info.
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "directory the reports are written to",
			Value:   ".",
			EnvVars: []string{"TORRENTINFO_OUT"},
		},
		&cli.StringSliceFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "report format, json or csv (repeatable)",
			Value:   cli.NewStringSlice(string(report.JSON), string(report.CSV)),
		},
	}
}

func newApp(r *runner) *cli.App {
	return &cli.App{
		Name:      "torrentinfo",
		Usage:     "export torrent metadata as JSON and CSV reports",
		ArgsUsage: "FILE...",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at debug level in a human readable format",
				EnvVars: []string{"TORRENTINFO_VERBOSE"},
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "maximum list/dictionary nesting accepted by the decoder",
				Value: bencode.DefaultMaxDepth,
			},
		}, reportFlags()...),
		Action: r.info,
		Before: func(c *cli.Context) error {
			r.maxDepth = c.Int("max-depth")
			if r.log != nil {
				return nil
			}
			log, err := newLogger(c.Bool("verbose"))
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			r.log = log
			return nil
		},
		After: func(c *cli.Context) error {
			if r.log != nil {
				_ = r.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "write a report for each torrent file",
				ArgsUsage: "FILE...",
				Flags:     reportFlags(),
				Action:    r.info,
			},
			{
				Name:      "decode",
				Usage:     "print the bencoded tree of a file as JSON",
				ArgsUsage: "FILE",
				Action:    r.decode,
			},
			{
				Name:      "canonical",
				Usage:     "re-encode a bencoded file with sorted dictionary keys",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output file, standard output when empty",
					},
				},
				Action: r.canonical,
			},
		},
	}
}

func (r *runner) parser() torrentparser.Parser {
	return torrentparser.Parser{MaxDepth: r.maxDepth}
}

// info exports every torrent given on the command line. A failing file is
// logged and reported at the end; it does not stop the others.
func (r *runner) info(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one torrent file is required", 2)
	}

	var formats []report.Format
	for _, name := range c.StringSlice("format") {
		f, err := report.ParseFormat(name)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		formats = append(formats, f)
	}

	var result *multierror.Error
	for _, path := range c.Args().Slice() {
		err := r.export(path, c.String("out"), formats)
		if err != nil {
			r.log.Error("failed to export torrent", zap.String("path", path), zap.Error(err))
			result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
		}
	}

	return result.ErrorOrNil()
}

func (r *runner) export(path, outDir string, formats []report.Format) error {
	t, err := r.parser().ParseTorrentFile(path)
	if err != nil {
		return err
	}

	r.log.Info("parsed torrent",
		zap.String("path", path),
		zap.Stringer("mode", t.Mode),
		zap.Uint64("total_size", t.TotalSize),
		zap.Uint64("total_pieces", t.TotalPieces),
		zap.String("info_hash", t.InfoHash),
	)
	if hashes := uint64(len(t.PieceHashes())); hashes != t.TotalPieces {
		r.log.Warn("piece hash count does not match total pieces",
			zap.String("path", path),
			zap.Uint64("piece_hashes", hashes),
			zap.Uint64("total_pieces", t.TotalPieces),
		)
	}

	written, err := report.Save(outDir, report.Stem(path), t, formats...)
	for _, p := range written {
		r.log.Info("wrote report", zap.String("path", p))
	}
	return err
}

func (r *runner) readTree(c *cli.Context) (bencode.Value, error) {
	if c.NArg() != 1 {
		return nil, cli.Exit("exactly one file is required", 2)
	}
	path := c.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r.log.Debug("read file", zap.String("path", path), zap.Int("bytes", len(data)))

	dec := bencode.Decoder{MaxDepth: r.maxDepth}
	tree, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func (r *runner) decode(c *cli.Context) error {
	tree, err := r.readTree(c)
	if err != nil {
		return err
	}

	raw, err := bencode.MarshalJSON(tree)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "    "); err != nil {
		return fmt.Errorf("indenting json: %w", err)
	}
	out.WriteByte('\n')

	_, err = c.App.Writer.Write(out.Bytes())
	return err
}

func (r *runner) canonical(c *cli.Context) error {
	tree, err := r.readTree(c)
	if err != nil {
		return err
	}

	outPath := c.String("out")
	if outPath == "" {
		return bencode.EncodeTo(c.App.Writer, tree)
	}

	err = os.WriteFile(outPath, bencode.Encode(tree), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	r.log.Info("wrote canonical file", zap.String("path", outPath))
	return nil
}
