package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the token to export as YEARBOOK_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Session().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s (%s)\n", resp.User.Email, resp.UserType)
			fmt.Fprintf(out, "export YEARBOOK_TOKEN=%s\n", resp.AccessToken)
			fmt.Fprintf(out, "export YEARBOOK_USER_TYPE=%s\n", resp.UserType)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newCollegesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "colleges",
		Short: "List colleges and their IDs",
		RunE: func(cmd *cobra.Command, args []string) error {
			colleges, err := a.client.ListColleges(cmd.Context())
			if err != nil {
				return err
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tQUESTIONS\tPHOTO SLOTS")
			for _, c := range colleges {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", c.ID, c.Name, len(c.YearbookQuestions), c.PhotoSlots)
			}
			return w.Flush()
		},
	}
}
