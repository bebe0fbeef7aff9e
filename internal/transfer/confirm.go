package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the operator whether to continue after a failure.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f(ctx, prompt).
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

var (
	// Decline answers no to every question.
	Decline Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

	// Accept answers yes to every question.
	Accept Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
)

// PromptConfirmer asks on a terminal. Only "y" and "yes" (any case) count as
// yes; end of input counts as no.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer reads answers from in and writes prompts to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints prompt followed by "[y/N]" and waits for an answer.
func (c *PromptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(c.out, "%s [y/N] ", prompt); err != nil {
		return false, err
	}

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
