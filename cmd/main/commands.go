package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/matt-steen/event-planner/pkg/planner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (s *session) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every guest, table and task to a JSON file",
		Long: `Write the whole planner state to a JSON file.

Without a file name the export is named after the event and today's date.
Use - to write to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context, p *planner.Planner) error {
				doc := p.Export()

				name := planner.ExportFileName(s.cfg.EventName, time.Now())
				if len(args) == 1 {
					name = args[0]
				}

				if name == "-" {
					return doc.Encode(cmd.OutOrStdout())
				}

				file, err := os.Create(name)
				if err != nil {
					return fmt.Errorf("error creating export file: %w", err)
				}
				defer file.Close()

				if err := doc.Encode(file); err != nil {
					return err
				}

				log.Info().Str("file", name).Int("guests", len(doc.Guests)).Msg("exported planner state")
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d guests, %d tables and %d tasks to %s\n",
					len(doc.Guests), len(doc.Tables), len(doc.Tasks), name)

				return nil
			})
		},
	}
}

func (s *session) importCmd() *cobra.Command {
	var yes bool

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with the content of an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("error opening import file: %w", err)
			}
			defer file.Close()

			doc, err := planner.DecodeDocument(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSummary(out, doc.Summary())

			if !yes && !ask(cmd.InOrStdin(), out, "Replace all current data?") {
				fmt.Fprintln(out, "import cancelled")

				return nil
			}

			return s.run(cmd, func(ctx context.Context, p *planner.Planner) error {
				if err := p.Import(ctx, doc); err != nil {
					return err
				}

				fmt.Fprintln(out, "import done")

				return nil
			})
		},
	}

	importCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return importCmd
}

func (s *session) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print guest, seat and task counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context, p *planner.Planner) error {
				out := cmd.OutOrStdout()

				guests := p.GuestStats()
				fmt.Fprintf(out, "guests: %d (confirmed %d, pending %d, declined %d, couples %d)\n",
					guests.Total, guests.Confirmed, guests.Pending, guests.Declined, guests.Couples)

				seats, occupied := 0, 0
				tables := p.Tables()

				for _, t := range tables {
					seats += len(t.Seats)
					occupied += t.Occupied()
				}

				fmt.Fprintf(out, "tables: %d (%d/%d seats taken)\n", len(tables), occupied, seats)

				u := p.UTable()
				uOccupied := 0

				for _, seat := range u.Seats {
					if seat != nil {
						uOccupied++
					}
				}

				fmt.Fprintf(out, "u-table: left %d, bottom %d, right %d (%d/%d seats taken)\n",
					u.LeftSeats, u.BottomSeats, u.RightSeats, uOccupied, u.Total())

				tasks := p.TaskStats()
				fmt.Fprintf(out, "tasks: %d (%d open, %d done)\n", tasks.Total, tasks.Active, tasks.Completed)

				return nil
			})
		},
	}
}

func printSummary(out io.Writer, summary planner.ImportSummary) {
	exported := "unknown date"
	if !summary.ExportDate.IsZero() {
		exported = summary.ExportDate.Local().Format("2006-01-02 15:04")
	}

	uTable := "no"
	if summary.HasUTable {
		uTable = "yes"
	}

	fmt.Fprintf(out, "export of %s (version %s)\n", exported, summary.AppVersion)
	fmt.Fprintf(out, "  guests: %d\n  tables: %d\n  u-table: %s\n  tasks: %d\n",
		summary.Guests, summary.Tables, uTable, summary.Tasks)
}

// ask prints question and reports whether the answer starts with y.
func ask(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(scanner.Text())), "y")
}
