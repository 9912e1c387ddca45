// Package console implements the interactive jts shell.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/clintrovert/jts/pkg/types"
)

// Command names understood by the shell
const (
	CmdExit   = "exit"
	CmdClear  = "clear"
	CmdHelp   = "help"
	CmdCopy   = "copy"
	CmdIssues = "issues"
)

// AvailableCommands lists the shell commands in help order
var AvailableCommands = []string{CmdExit, CmdClear, CmdHelp, CmdCopy, CmdIssues}

const clearScreen = "\033[H\033[2J"

// Service is what the shell needs to run commands
type Service interface {
	CloneIssue(ctx context.Context, sourceKey, projectKey string) (*types.CreatedIssue, error)
	GetIssues(ctx context.Context) ([]types.Issue, error)
}

// Console reads commands from in and writes their results to out
type Console struct {
	service Service
	in      *bufio.Reader
	out     io.Writer
	logger  *zap.Logger
}

// New creates a new console
func New(service Service, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		service: service,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger,
	}
}

// Run prompts for commands until exit, end of input or ctx is done
func (c *Console) Run(ctx context.Context) error {
	c.printHelp()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(c.out, "> ")
		line, err := c.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Execute runs a single command line. It reports whether the shell should
// stop.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}

	switch strings.ToLower(args[0]) {
	case CmdExit:
		return true, nil
	case CmdClear:
		fmt.Fprint(c.out, clearScreen)
	case CmdHelp:
		c.printHelp()
	case CmdCopy:
		return false, c.copyIssue(ctx, args[1:])
	case CmdIssues:
		c.listIssues(ctx)
	default:
		fmt.Fprintln(c.out, "Unknown command. Type 'help' for a list of available commands.")
	}

	return false, nil
}

func (c *Console) copyIssue(ctx context.Context, args []string) error {
	sourceKey, err := c.argOrPrompt(args, 0, "Insert key of the task to copy:")
	if err != nil {
		return err
	}
	projectKey, err := c.argOrPrompt(args, 1, "Insert key of the project to copy to:")
	if err != nil {
		return err
	}
	if sourceKey == "" || projectKey == "" {
		fmt.Fprintln(c.out, "Both an issue key and a project key are required.")
		return nil
	}

	created, err := c.service.CloneIssue(ctx, sourceKey, projectKey)
	if err != nil {
		c.logger.Error("failed to clone issue", zap.String("source_key", sourceKey), zap.Error(err))
		fmt.Fprintf(c.out, "Could not copy %s: %v\n", sourceKey, err)
		return nil
	}

	fmt.Fprintf(c.out, "Copied %s to %s\n", sourceKey, created.Key)
	if len(created.FailedAttachments) > 0 {
		fmt.Fprintf(c.out, "Attachments not copied: %s\n", strings.Join(created.FailedAttachments, ", "))
	}

	return nil
}

func (c *Console) listIssues(ctx context.Context) {
	issues, err := c.service.GetIssues(ctx)
	if err != nil {
		c.logger.Error("failed to list issues", zap.Error(err))
		fmt.Fprintf(c.out, "Could not list issues: %v\n", err)
		return
	}
	if len(issues) == 0 {
		fmt.Fprintln(c.out, "No issues found.")
		return
	}

	keys := make([]string, 0, len(issues))
	for _, issue := range issues {
		keys = append(keys, issue.Key)
	}
	fmt.Fprintf(c.out, "These are your jira issues: %s\n", strings.Join(keys, ", "))
}

// argOrPrompt returns args[i] or asks for it on the next input line
func (c *Console) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if i < len(args) {
		return args[i], nil
	}

	fmt.Fprintln(c.out, prompt)
	line, err := c.readLine()
	if errors.Is(err, io.EOF) {
		return line, nil
	}
	return line, err
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line != "" && errors.Is(err, io.EOF) {
		return line, nil
	}
	return line, err
}

func (c *Console) printHelp() {
	fmt.Fprintf(c.out, "Available commands: %s\n", strings.Join(AvailableCommands, ", "))
}
