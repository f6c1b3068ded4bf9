package chatclient

import (
	"fmt"
	"io"
	"strings"
)

// Render writes v as a terminal transcript. It reads nothing but v.
func Render(w io.Writer, v View) error {
	for _, m := range v.Messages {
		if err := RenderMessage(w, m); err != nil {
			return err
		}
	}
	if v.Loading {
		if _, err := fmt.Fprintln(w, "        bot is typing..."); err != nil {
			return err
		}
	}
	if v.SuggestionsVisible && len(v.Suggestions) > 0 {
		return RenderSuggestions(w, v.Suggestions)
	}
	return nil
}

// RenderMessage writes one bubble as "[HH:MM] who: text". Continuation lines
// are indented under the text.
func RenderMessage(w io.Writer, m Message) error {
	who := "bot"
	if m.Role == RoleUser {
		who = "you"
	}
	prefix := fmt.Sprintf("[%s] %s: ", m.At.Format("15:04"), who)
	indent := strings.Repeat(" ", len(prefix))
	text := strings.ReplaceAll(m.Text, "\n", "\n"+indent)
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
	return err
}

// RenderSuggestions lists suggestions as numbered shortcuts.
func RenderSuggestions(w io.Writer, suggestions []string) error {
	if _, err := fmt.Fprintln(w, "Suggestions:"); err != nil {
		return err
	}
	for i, s := range suggestions {
		if _, err := fmt.Fprintf(w, "  /%d  %s\n", i+1, s); err != nil {
			return err
		}
	}
	return nil
}
