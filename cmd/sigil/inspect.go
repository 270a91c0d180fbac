package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/sigil/pkg/rcf"
)

func inspectCmd() *cli.Command {
	var (
		filePath     string
		showSections bool
		showRecords  bool
		kindFilter   int64
		jsonOut      bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect the contents of an .rcf record container",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to .rcf file",
				Destination: &filePath,
				Required:    true,
			},
			&cli.BoolFlag{Name: "sections", Usage: "show section directory", Destination: &showSections},
			&cli.BoolFlag{Name: "records", Usage: "list captured records", Destination: &showRecords},
			&cli.Int64Flag{Name: "kind", Usage: "limit record listing to one kind tag", Value: -1, Destination: &kindFilter},
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable JSON", Destination: &jsonOut},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_ = ctx

			f, err := rcf.Open(filePath)
			if err != nil {
				return fmt.Errorf("open %s: %w", filePath, err)
			}
			defer func() { _ = f.Close() }()

			infos, err := f.Images()
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(f, infos, showRecords, kindFilter)
			}

			fmt.Printf("file:     %s\n", filePath)
			fmt.Printf("format:   RCF v%d.%d\n", f.Header.Major, f.Header.Minor)
			fmt.Printf("images:   %d\n", len(infos))

			if showSections {
				fmt.Println()
				fmt.Println("sections:")
				for _, s := range f.Sections {
					fmt.Printf("  type=%#06x version=%d offset=%d size=%d\n", s.Type, s.Version, s.Offset, s.Size)
				}
			}

			fmt.Println()
			for i, info := range infos {
				fmt.Printf("image %q (base=%#x, %d records)\n", info.Name, info.Base, info.Records)
				if !showRecords {
					continue
				}
				recs, err := f.ImageRecords(i)
				if err != nil {
					return err
				}
				for _, rec := range recs {
					if kindFilter >= 0 && int64(rec.Kind) != kindFilter {
						continue
					}
					accessor := "-"
					if rec.Flags&rcf.FlagHasAccessor != 0 {
						accessor = "accessor"
					}
					fmt.Printf("  kind=%-6d context=%-12d %s\n", rec.Kind, rec.Context, accessor)
				}
			}
			return nil
		},
	}
}

type inspectRecordJSON struct {
	Image       string `json:"image"`
	Kind        uint32 `json:"kind"`
	Context     uint64 `json:"context"`
	HasAccessor bool   `json:"has_accessor"`
}

type inspectJSON struct {
	Images  []rcf.ImageInfo     `json:"images"`
	Records []inspectRecordJSON `json:"records,omitempty"`
}

func printJSON(f *rcf.File, infos []rcf.ImageInfo, withRecords bool, kindFilter int64) error {
	out := inspectJSON{Images: infos}
	if withRecords {
		for i, info := range infos {
			recs, err := f.ImageRecords(i)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				if kindFilter >= 0 && int64(rec.Kind) != kindFilter {
					continue
				}
				out.Records = append(out.Records, inspectRecordJSON{
					Image:       info.Name,
					Kind:        rec.Kind,
					Context:     rec.Context,
					HasAccessor: rec.Flags&rcf.FlagHasAccessor != 0,
				})
			}
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
