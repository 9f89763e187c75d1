package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/testimonial"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func newStudentsCmd(a *app) *cobra.Command {
	var filter models.StudentFilter
	var completion string
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List students with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if completion != "" {
				filter.Completion = models.CompletionBucket(strings.ToLower(completion))
				if _, _, ok := filter.Completion.Range(); !ok {
					return fmt.Errorf("--completion must be one of low, partial, complete")
				}
			}
			students, page, err := a.client.ListStudents(cmd.Context(), filter)
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPLETION")
			for _, s := range students {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\n", s.ID, s.Name, s.Email, s.ProfileCompletion)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if page != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d of %d students\n", page.Page, len(students), page.TotalCount)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.CollegeID, "college", "", "college ID")
	cmd.Flags().StringVar(&filter.Search, "search", "", "name or email substring")
	cmd.Flags().StringVar(&completion, "completion", "", "low, partial or complete")
	cmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&filter.PageSize, "limit", 20, "page size")
	return cmd
}

func newTestimonialCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testimonial",
		Short: "Check or submit testimonials",
	}

	check := &cobra.Command{
		Use:   "check <text>",
		Short: "Validate testimonial text against the word limit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := testimonial.Validate(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d words\n", n, testimonial.MaxWords)
			return nil
		},
	}

	var to string
	submit := &cobra.Command{
		Use:   "submit <text>",
		Short: "Write a testimonial about a classmate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.SubmitTestimonial(cmd.Context(), to, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d words)\n", result.Message, result.WordCount)
			return nil
		},
	}
	submit.Flags().StringVar(&to, "to", "", "classmate's student ID")
	_ = submit.MarkFlagRequired("to")

	cmd.AddCommand(check, submit)
	return cmd
}
