package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zhengjr9/chat-relay/internal/chatclient"
)

const replHelp = `Commands:
  /clear     clear the conversation
  /suggest   show suggested prompts
  /1 ... /9  send a suggested prompt
  /help      show this help
  /quit      exit`

// lineConfirmer asks on out and reads the answer from the REPL's own scanner,
// so typed-ahead lines are not lost.
type lineConfirmer struct {
	in  *bufio.Scanner
	out io.Writer
}

func newConfirmer(in io.Reader, out io.Writer) *lineConfirmer {
	return &lineConfirmer{in: bufio.NewScanner(in), out: out}
}

func (c *lineConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	if !c.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(c.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// printer writes each message once, reprinting from the top when the
// conversation was reset.
type printer struct {
	out     io.Writer
	firstID string
	shown   int
	typing  bool
}

func (p *printer) update(v chatclient.View) {
	if len(v.Messages) == 0 {
		return
	}
	if v.Messages[0].ID != p.firstID || len(v.Messages) < p.shown {
		p.firstID = v.Messages[0].ID
		p.shown = 0
		fmt.Fprintln(p.out, "--")
	}
	for _, m := range v.Messages[p.shown:] {
		_ = chatclient.RenderMessage(p.out, m)
	}
	p.shown = len(v.Messages)

	if v.Loading && !p.typing {
		fmt.Fprintln(p.out, "        bot is typing...")
	}
	p.typing = v.Loading
}

func runREPL(ctx context.Context, api chatclient.API, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	confirm := newConfirmer(in, out)
	p := &printer{out: out}

	baseURL := ""
	if c, ok := api.(interface{ BaseURL() string }); ok {
		baseURL = c.BaseURL()
	}
	s := chatclient.NewSession(api, chatclient.SessionConfig{
		BackendURL: baseURL,
		Confirm:    confirm,
		OnChange:   p.update,
	})

	p.update(s.View())
	s.Start(ctx)
	if v := s.View(); v.SuggestionsVisible {
		_ = chatclient.RenderSuggestions(out, v.Suggestions)
	}

	for {
		fmt.Fprint(out, "> ")
		if !confirm.in.Scan() {
			fmt.Fprintln(out)
			return confirm.in.Err()
		}
		line := strings.TrimSpace(confirm.in.Text())

		quit, err := dispatch(ctx, s, out, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// dispatch runs one REPL line. It reports whether the session should end.
func dispatch(ctx context.Context, s *chatclient.Session, out io.Writer, line string) (bool, error) {
	switch line {
	case "":
		return false, nil
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(out, replHelp)
		return false, nil
	case "/clear":
		if !s.ClearHistory(ctx) {
			fmt.Fprintln(out, "cancelled")
		}
		return false, nil
	case "/suggest":
		s.LoadSuggestions(ctx)
		return false, chatclient.RenderSuggestions(out, s.View().Suggestions)
	}

	if n, ok := strings.CutPrefix(line, "/"); ok {
		i, err := strconv.Atoi(n)
		if err != nil {
			return false, fmt.Errorf("unknown command %q, try /help", line)
		}
		_, err = s.ChooseSuggestion(ctx, i-1)
		return false, ignoreStale(err)
	}

	_, err := s.SendMessage(ctx, line)
	return false, ignoreStale(err)
}

func ignoreStale(err error) error {
	if errors.Is(err, chatclient.ErrStaleReply) {
		return nil
	}
	return err
}
