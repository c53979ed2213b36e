// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command irvtally tabulates a YAML file of ranked ballots with the same IRV
// rules the server uses.
//
//	irvtally -i ballots.yaml --format csv -o results.csv
//
// The input lists the options in tie-break order and one ranking list per
// ballot:
//
//	title: Team offsite
//	options: [Tokyo, Lisbon, Reykjavik]
//	ballots:
//	  - [{option: Tokyo, rank: 1}, {option: Lisbon, rank: 2}]
//	  - [{option: Lisbon, rank: 1}]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-rank/irv"
	"github.com/danielhkuo/quickly-rank/results"
)

const (
	inputFlag  = "input"
	formatFlag = "format"
	outputFlag = "output"
	stdioName  = "-"
)

// tallyFile is the YAML input layout
type tallyFile struct {
	Title   string          `yaml:"title,omitempty"`
	Options []string        `yaml:"options"`
	Ballots [][]irv.Ranking `yaml:"ballots"`
}

func newApp() *cli.App {
	var inputLocation, outputLocation, format string

	return &cli.App{
		Name:  "irvtally",
		Usage: "Tabulate ranked ballots with instant-runoff voting",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        inputFlag,
				Aliases:     []string{"i"},
				Usage:       "Path to the YAML ballot file, or \"-\" for stdin",
				Destination: &inputLocation,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        formatFlag,
				Aliases:     []string{"f"},
				Usage:       "Output format: text, csv or yaml",
				Value:       "text",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        outputFlag,
				Aliases:     []string{"o"},
				Usage:       "Where to write the result. Can be a file path or \"-\" (for stdout).",
				Value:       stdioName,
				Destination: &outputLocation,
			},
		},
		Action: func(cCtx *cli.Context) error {
			in, err := readTallyFile(inputLocation, cCtx.App.Reader)
			if err != nil {
				return err
			}

			w := cCtx.App.Writer
			if outputLocation != stdioName {
				f, err := os.Create(outputLocation)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			ballots := make([]irv.Ballot, len(in.Ballots))
			for i, rankings := range in.Ballots {
				ballots[i] = irv.Ballot{Rankings: rankings}
			}
			result := irv.Tabulate(ballots, in.Options)

			return writeResult(w, format, in.Title, result)
		},
	}
}

func readTallyFile(location string, stdin io.Reader) (tallyFile, error) {
	var r io.Reader = stdin
	if location != stdioName {
		f, err := os.Open(location)
		if err != nil {
			return tallyFile{}, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in tallyFile
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return tallyFile{}, fmt.Errorf("failed to decode YAML: %w", err)
	}
	if len(in.Options) == 0 {
		return tallyFile{}, fmt.Errorf("input lists no options")
	}
	return in, nil
}

func writeResult(w io.Writer, format, title string, result irv.Result) error {
	switch format {
	case "text":
		return writeText(w, title, result)
	case "csv":
		return results.WriteCSV(w, result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&result); err != nil {
			return fmt.Errorf("encoding to YAML failed: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, title string, result irv.Result) error {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "%s\n\n", title)
	}

	for i, round := range result.Rounds {
		fmt.Fprintf(&b, "Round %d\n", i+1)
		for _, entry := range round {
			fmt.Fprintf(&b, "  %-24s %5d  %5.1f%%", entry.Option, entry.Votes, results.Rounded(entry.Percentage))
			if entry.Eliminated {
				b.WriteString("  eliminated")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Winner: %s\n%s\n", result.Winner, results.Summary(result))

	_, err := io.WriteString(w, b.String())
	return err
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("irvtally failed", "error", err)
		os.Exit(1)
	}
}
