package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// terminalPrompter asks for names on the terminal. It implements
// proxy.Prompter for interactive subcommands.
type terminalPrompter struct {
	in  io.Reader
	out io.Writer
}

func (t *terminalPrompter) PromptName(ctx context.Context, purpose string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(t.out, "New %s name: ", purpose)
	line, err := bufio.NewReader(t.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read name: %w", err)
	}
	return strings.TrimSpace(line), nil
}
