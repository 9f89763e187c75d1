package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/roster"
	"github.com/noah-isme/yearbook-api/pkg/yearbookclient"
)

// maxRosterBytes matches the server's default roster size limit.
const maxRosterBytes = 5 << 20

func newUploadCmd(a *app) *cobra.Command {
	var file, text, collegeID, out string
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Bulk create students from a roster file or pasted text",
		Long: "Parses a .xlsx, .csv or .txt roster (or --text with one \"name,email[,phone]\" per line),\n" +
			"submits it to the selected college and prints the generated credentials.",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRoster(file, text)
			if err != nil {
				return err
			}
			batch, err := roster.NewBatch(collegeID, records)
			if err != nil {
				if errors.Is(err, roster.ErrMissingCollege) {
					return errors.New("please select a college (--college)")
				}
				return err
			}

			a.logger.Debug("submitting roster", zap.String("college_id", batch.CollegeID), zap.Int("rows", len(batch.Students)))
			result, err := yearbookclient.NewSubmitter(a.client).Submit(cmd.Context(), batch)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Successfully created %d students", result.CreatedCount)
			if result.SkippedCount > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), " (%d skipped)", result.SkippedCount)
			}
			fmt.Fprintln(cmd.ErrOrStderr())

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), roster.FormatCredentials(result.Students))
				return nil
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := saveCredentials(f, result.Students); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Credentials saved to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "roster file (.xlsx, .csv or .txt)")
	cmd.Flags().StringVar(&text, "text", "", "roster as text, one \"name,email[,phone]\" per line")
	cmd.Flags().StringVar(&collegeID, "college", "", "target college ID")
	cmd.Flags().StringVar(&out, "out", "", "write credentials CSV to this path instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
	return cmd
}

// saveCredentials writes the sheet and closes w, reporting a failed close.
func saveCredentials(w io.WriteCloser, results []roster.CredentialResult) error {
	if err := roster.WriteCredentials(w, results); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func readRoster(file, text string) ([]roster.StudentRecord, error) {
	if file == "" {
		return roster.ParseDelimited(text)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return roster.ParseFile(filepath.Base(file), f, maxRosterBytes)
}
