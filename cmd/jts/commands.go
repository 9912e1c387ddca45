package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clintrovert/jts/internal/config"
	"github.com/clintrovert/jts/internal/console"
	"github.com/clintrovert/jts/internal/credential"
)

// shellCmd starts the interactive shell
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// copyCmd clones one issue
var copyCmd = &cobra.Command{
	Use:   "copy <issue-key> <project-key>",
	Short: "Copy an issue into a service desk project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		created, err := mgr.CloneIssue(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s\n", args[0], created.Key)
		if len(created.FailedAttachments) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Attachments not copied: %s\n", strings.Join(created.FailedAttachments, ", "))
		}
		return nil
	},
}

// issuesCmd lists assigned issues
var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List the unresolved tasks assigned to you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		issues, err := mgr.GetIssues(cmd.Context())
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
			return nil
		}
		for _, issue := range issues {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", issue.Key, issue.Summary)
		}
		return nil
	},
}

// checkCmd verifies the Jira credentials
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the connection to Jira",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := newManager(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Connection to Jira is working.")
		return nil
	},
}

// authCmd manages stored credentials
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored credentials",
}

// authSetCmd stores the Jira API key in the OS keyring
var authSetCmd = &cobra.Command{
	Use:   "set [api-key]",
	Short: "Store the Jira API key in the OS keyring",
	Long: `Store the Jira API key in the OS keyring. The key is read from
standard input when not given as an argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		} else {
			fmt.Fprint(cmd.OutOrStdout(), "Jira API key: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading api key: %w", err)
			}
			key = strings.TrimSpace(line)
		}
		if key == "" {
			return fmt.Errorf("api key must not be empty")
		}

		store, err := credential.Open(config.DefaultCredentialDir())
		if err != nil {
			return err
		}
		if err := store.Set(credential.APIKeyItem, key); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "API key stored.")
		return nil
	},
}

// authDeleteCmd removes the Jira API key from the OS keyring
var authDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored Jira API key from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credential.Open(config.DefaultCredentialDir())
		if err != nil {
			return err
		}
		if err := store.Delete(credential.APIKeyItem); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
		return nil
	},
}

func runShell(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd.Context())
	if err != nil {
		return err
	}

	return console.New(mgr, os.Stdin, cmd.OutOrStdout(), logger).Run(cmd.Context())
}
