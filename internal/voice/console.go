// Package voice holds the speech transports. Speech engines are outside this
// module; Console is the text stand-in used by the chat command.
package voice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"vocalcart/internal/common/logger"
)

// IO listens for one utterance and speaks a reply. Listen returns false when
// input is exhausted or ctx is done.
type IO interface {
	Listen(ctx context.Context) (string, bool)
	Speak(text string)
}

// Console reads lines from in and writes replies to out.
type Console struct {
	lines  chan string
	out    io.Writer
	prompt string
	logger logger.Logger

	once   sync.Once
	closed sync.Once
	done   chan struct{}
	in     *bufio.Scanner
	mu     sync.Mutex
}

func NewConsole(in io.Reader, out io.Writer, prompt string, log logger.Logger) *Console {
	return &Console{
		lines:  make(chan string),
		done:   make(chan struct{}),
		in:     bufio.NewScanner(in),
		out:    out,
		prompt: prompt,
		logger: logger.ForComponent(log, "voice.console"),
	}
}

func (c *Console) start() {
	go func() {
		defer close(c.lines)
		for c.in.Scan() {
			select {
			case c.lines <- c.in.Text():
			case <-c.done:
				return
			}
		}
		if err := c.in.Err(); err != nil {
			c.logger.Warn("console input failed", map[string]interface{}{"error": err.Error()})
		}
	}()
}

// Listen prompts and waits for the next non-empty line.
func (c *Console) Listen(ctx context.Context) (string, bool) {
	c.once.Do(c.start)
	for {
		if c.prompt != "" {
			c.write(c.prompt)
		}
		select {
		case <-ctx.Done():
			return "", false
		case line, ok := <-c.lines:
			if !ok {
				return "", false
			}
			if line = strings.TrimSpace(line); line != "" {
				return line, true
			}
		}
	}
}

// Close stops delivering input. A reader blocked on the underlying input
// exits once that input returns.
func (c *Console) Close() {
	c.closed.Do(func() { close(c.done) })
}

// Speak prints text. Write failures are logged, never returned.
func (c *Console) Speak(text string) {
	c.write(text + "\n")
}

func (c *Console) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprint(c.out, s); err != nil {
		c.logger.Warn("console output failed", map[string]interface{}{"error": err.Error()})
	}
}
