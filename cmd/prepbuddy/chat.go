package main

import (
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/comigor/prepbuddy/internal/chat"
	"github.com/comigor/prepbuddy/internal/cli"
	"github.com/comigor/prepbuddy/internal/markdown"
)

const chatHelp = `/new              start a new chat
/sessions         list chats
/switch <id>      switch to a chat
/delete <id>      delete a chat
/regen            regenerate the last answer
/quick [n]        list or send a suggested question
/show             render the current chat
/export <file>    write the current chat as HTML
/quit             exit
Ctrl+C while an answer streams stops it.
`

func newChatCmd() *cobra.Command {
	var opts struct {
		UserID string
		Style  string
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the placement assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := bootstrap(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			if opts.UserID == "" {
				opts.UserID = cfg.Client.UserID
			}

			printer := &streamPrinter{}
			m := chat.NewManager(
				chat.NewHTTPRelay(cfg.Client.RelayURL, "", nil),
				chat.WithUserID(opts.UserID),
				chat.WithOnChange(printer.update),
			)
			printer.attach(m)

			term, err := markdown.NewTerminal(opts.Style, cli.Width())
			if err != nil {
				return err
			}

			prompt, err := cli.NewPrompt(historyFile("chat"))
			if err != nil {
				return err
			}
			defer prompt.Close()

			c := &chatREPL{m: m, term: term, printer: printer}
			c.show()
			return c.loop(prompt)
		},
	}
	cmd.Flags().StringVarP(&opts.UserID, "user", "u", "", "user id sent with requests (overrides client.user_id)")
	cmd.Flags().StringVar(&opts.Style, "style", "dark", "glamour style used to render answers")
	return cmd
}

type chatREPL struct {
	m       *chat.Manager
	term    *markdown.Terminal
	printer *streamPrinter
}

func (c *chatREPL) loop(prompt *cli.Prompt) error {
	for {
		line, err := prompt.Line()
		if err == cli.ErrAborted {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			c.send(line)
			continue
		}

		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch name {
		case "/quit", "/exit":
			return nil
		case "/help":
			cli.Info(chatHelp)
		case "/new":
			s := c.m.CreateSession()
			cli.Success("started chat %s\n", s.ID)
		case "/sessions":
			c.listSessions()
		case "/switch":
			if !c.m.SwitchSession(arg) {
				cli.Error("no chat %q\n", arg)
				continue
			}
			c.show()
		case "/delete":
			if !c.m.DeleteSession(arg) {
				cli.Error("cannot delete %q\n", arg)
				continue
			}
			cli.Success("deleted %s\n", arg)
		case "/regen":
			c.regenerate()
		case "/quick":
			c.quick(arg)
		case "/show":
			c.show()
		case "/export":
			if err := c.export(arg); err != nil {
				cli.Error("export failed: %v\n", err)
				continue
			}
			cli.Success("wrote %s\n", arg)
		default:
			cli.Error("unknown command %s, try /help\n", name)
		}
	}
}

func (c *chatREPL) send(text string) {
	c.printer.arm(len(c.m.Messages()) + 1)
	if !c.m.SendMessage(text) {
		c.printer.disarm()
		cli.Error("a response is still in progress\n")
		return
	}
	c.wait()
}

func (c *chatREPL) regenerate() {
	c.printer.arm(len(c.m.Messages()) - 1)
	if !c.m.RegenerateLastResponse() {
		c.printer.disarm()
		cli.Error("nothing to regenerate\n")
		return
	}
	c.wait()
}

func (c *chatREPL) quick(arg string) {
	if arg == "" {
		for i, q := range chat.QuickQuestions {
			cli.Info("%d. %s\n", i+1, q)
		}
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(chat.QuickQuestions) {
		cli.Error("pick a number between 1 and %d\n", len(chat.QuickQuestions))
		return
	}
	q := chat.QuickQuestions[n-1]
	cli.User("%s\n", q)
	c.send(q)
}

// wait blocks until the answer is complete. An interrupt stops the stream.
func (c *chatREPL) wait() {
	done := make(chan struct{})
	go func() {
		c.m.Wait()
		close(done)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	select {
	case <-done:
	case <-sig:
		c.m.StopStreaming()
		<-done
		cli.Info("\n[stopped]")
	}
	c.printer.disarm()
	fmt.Println()
}

func (c *chatREPL) listSessions() {
	current := c.m.Current().ID
	for _, s := range c.m.Sessions() {
		marker := " "
		if s.ID == current {
			marker = "*"
		}
		cli.Info("%s %s  %s (%d messages)\n", marker, s.ID, s.Title, len(s.Messages))
	}
}

func (c *chatREPL) show() {
	s := c.m.Current()
	cli.Title("%s", s.Title)
	for _, msg := range s.Messages {
		if msg.Role == chat.RoleUser {
			cli.User("> %s\n", msg.Content)
			continue
		}
		fmt.Println(c.term.Render(msg.Content))
	}
	cli.Separator()
}

func (c *chatREPL) export(path string) error {
	if path == "" {
		return errors.New("usage: /export <file>")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeTranscript(f, c.m.Current()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeTranscript renders s as a standalone HTML page. Assistant messages go
// through the markdown formatter of the web chat; user text is escaped.
func writeTranscript(w io.Writer, s chat.Session) error {
	var b strings.Builder
	title := html.EscapeString(s.Title)
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n<h1>%s</h1>\n", title, title)
	for _, msg := range s.Messages {
		body := markdown.ToHTML(msg.Content)
		if msg.Role == chat.RoleUser {
			body = html.EscapeString(msg.Content)
		}
		fmt.Fprintf(&b, "<div class=\"message %s\" data-time=\"%s\"><p class=\"mb-3\">%s</p></div>\n",
			msg.Role, msg.Timestamp.Format(time.RFC3339), body)
	}
	b.WriteString("</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// streamPrinter writes the growing content of the assistant message at index
// to the terminal as chunks arrive.
type streamPrinter struct {
	mu      sync.Mutex
	m       *chat.Manager
	index   int
	printed string
}

func (p *streamPrinter) attach(m *chat.Manager) {
	p.mu.Lock()
	p.m = m
	p.index = -1
	p.mu.Unlock()
}

func (p *streamPrinter) arm(index int) {
	p.mu.Lock()
	p.index = index
	p.printed = ""
	p.mu.Unlock()
}

func (p *streamPrinter) disarm() {
	p.mu.Lock()
	p.index = -1
	p.mu.Unlock()
}

func (p *streamPrinter) update() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil || p.index < 0 {
		return
	}
	msgs := p.m.Messages()
	if p.index >= len(msgs) || msgs[p.index].Role != chat.RoleAssistant {
		return
	}
	content := msgs[p.index].Content
	if strings.HasPrefix(content, p.printed) {
		cli.Assistant(content[len(p.printed):])
	} else {
		cli.Assistant("\n" + content)
	}
	p.printed = content
}

// historyFile places readline history next to the user's config, or nowhere
// when the home directory is unknown.
func historyFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".prepbuddy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, name+".history")
}
