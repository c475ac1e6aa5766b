package wallet

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Summary describes a pending write for confirmation.
type Summary struct {
	From        common.Address
	To          common.Address
	Value       *big.Int
	Description string
}

// Confirmer approves or declines a write before it is signed.
type Confirmer interface {
	Confirm(ctx context.Context, s Summary) (bool, error)
}

// AutoConfirm approves every write.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(context.Context, Summary) (bool, error) {
	return true, nil
}

// PromptConfirmer asks y/N on a terminal. Anything other than y or yes declines.
// All prompts share one reader, so answers piped on consecutive lines reach
// consecutive prompts.
type PromptConfirmer struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan string
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out, lines: make(chan string)}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, s Summary) (bool, error) {
	fmt.Fprintf(p.out, "%s\n  from:  %s\n  to:    %s\n  value: %s wei\nSend transaction? [y/N]: ",
		s.Description, s.From.Hex(), s.To.Hex(), s.Value)

	p.once.Do(func() { go p.scan() })

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return false, nil
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// scan hands one line at a time to whichever prompt is waiting and closes lines at EOF.
func (p *PromptConfirmer) scan() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		if line != "" {
			p.lines <- line
		}
		if err != nil {
			return
		}
	}
}
