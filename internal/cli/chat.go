package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/healthners/healthners/internal/app/conversation"
	"github.com/healthners/healthners/internal/app/settings"
	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/i18n"
)

// chatSession is the terminal rendition of the entry and chat screens.
type chatSession struct {
	svc      *conversation.Service
	settings *settings.Store
	in       *bufio.Scanner
	out      io.Writer
	width    int
	md       *markdownRenderer

	userID domain.UserID
}

func newChatSession(svc *conversation.Service, st *settings.Store, in io.Reader, out io.Writer) *chatSession {
	width := terminalWidth()
	return &chatSession{
		svc:      svc,
		settings: st,
		in:       bufio.NewScanner(in),
		out:      out,
		width:    width,
		md:       newMarkdownRenderer(width),
	}
}

var errQuit = errors.New("quit")

// Run shows the entry screen when nobody is logged in, then the chat loop.
// It returns nil when the input ends or the user quits.
func (c *chatSession) Run(ctx context.Context) error {
	for {
		msgs, err := c.start(ctx)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		c.printMessages(ctx, msgs)
		c.printQuickReplies(ctx)

		err = c.loop(ctx)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		// logged out: back to the entry screen
	}
}

func (c *chatSession) start(ctx context.Context) ([]domain.Message, error) {
	out, err := c.svc.Resume(ctx)
	if err == nil {
		c.userID = out.UserID
		return out.Messages, nil
	}
	if !errors.Is(err, conversation.ErrNoUser) {
		return nil, err
	}

	cat := c.catalog(ctx)
	fmt.Fprintln(c.out, titleStyle.Render("Healthner"))
	fmt.Fprintln(c.out, subtitleStyle.Render(cat.Welcome))
	fmt.Fprintf(c.out, "[Enter] %s\n", cat.GetStarted)

	if _, ok := c.readLine(); !ok {
		return nil, errQuit
	}

	entered, err := c.svc.Enter(ctx)
	if err != nil {
		return nil, err
	}
	c.userID = entered.UserID
	return entered.Messages, nil
}

func (c *chatSession) loop(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, "> ")
		line, ok := c.readLine()
		if !ok {
			return errQuit
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "/") {
			c.send(ctx, func() (*conversation.SendOutput, error) {
				return c.svc.Send(ctx, c.userID, line)
			})
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "/quit", "/exit":
			return errQuit
		case "/help":
			c.printHelp()
		case "/quick":
			c.quickReply(ctx, arg)
		case "/clear":
			c.clearHistory(ctx)
		case "/logout":
			if err := c.svc.Logout(ctx, c.userID); err != nil {
				return err
			}
			c.userID = ""
			fmt.Fprintln(c.out, subtitleStyle.Render(c.catalog(ctx).Logout))
			return nil
		case "/theme":
			st := c.settings.ToggleTheme(ctx)
			fmt.Fprintf(c.out, "%s: %s\n", c.catalog(ctx).Theme, c.themeLabel(ctx, st.Theme))
		case "/lang":
			st := c.settings.SetLanguage(ctx, domain.Language(arg))
			fmt.Fprintf(c.out, "%s: %s\n", c.catalog(ctx).Language, st.Language)
			c.printQuickReplies(ctx)
		default:
			c.printHelp()
		}
	}
}

func (c *chatSession) send(ctx context.Context, fn func() (*conversation.SendOutput, error)) {
	fmt.Fprintln(c.out, subtitleStyle.Render("..."))

	res, err := fn()
	if err != nil {
		fmt.Fprintln(c.out, subtitleStyle.Render(err.Error()))
		return
	}
	c.printMessage(ctx, res.BotMessage)
}

func (c *chatSession) quickReply(ctx context.Context, arg string) {
	replies := c.svc.QuickReplies(ctx)
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(replies) {
		c.printQuickReplies(ctx)
		return
	}

	key := replies[n-1].Key
	fmt.Fprintln(c.out, renderUser(replies[n-1].Label, c.width))
	c.send(ctx, func() (*conversation.SendOutput, error) {
		return c.svc.QuickReply(ctx, c.userID, key)
	})
}

func (c *chatSession) clearHistory(ctx context.Context) {
	cat := c.catalog(ctx)
	fmt.Fprintf(c.out, "%s\n%s [y/N] ", cat.DeleteHistory, cat.DeleteHistoryConfirm)

	answer, _ := c.readLine()
	confirmed := strings.EqualFold(strings.TrimSpace(answer), "y")
	if !confirmed {
		fmt.Fprintln(c.out, cat.Cancel)
		return
	}

	msgs, err := c.svc.ClearHistory(ctx, c.userID, true)
	if err != nil {
		fmt.Fprintln(c.out, subtitleStyle.Render(err.Error()))
		return
	}
	c.printMessages(ctx, msgs)
}

func (c *chatSession) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *chatSession) catalog(ctx context.Context) i18n.Catalog {
	return i18n.ForLanguage(c.settings.Load(ctx).Language)
}

func (c *chatSession) themeLabel(ctx context.Context, theme domain.Theme) string {
	cat := c.catalog(ctx)
	if theme == domain.ThemeDark {
		return cat.DarkMode
	}
	return cat.LightMode
}

func (c *chatSession) printMessages(ctx context.Context, msgs []domain.Message) {
	for _, m := range msgs {
		c.printMessage(ctx, m)
	}
}

func (c *chatSession) printMessage(ctx context.Context, m domain.Message) {
	if m.IsUser {
		fmt.Fprintln(c.out, renderUser(m.Text, c.width))
		return
	}
	fmt.Fprintln(c.out, c.md.Render(m.Text, c.settings.Load(ctx).Theme))
}

func (c *chatSession) printQuickReplies(ctx context.Context) {
	for i, qr := range c.svc.QuickReplies(ctx) {
		fmt.Fprintln(c.out, quickReplyStyle.Render(fmt.Sprintf("/quick %d  %s", i+1, qr.Label)))
	}
}

func (c *chatSession) printHelp() {
	fmt.Fprintln(c.out, strings.Join([]string{
		"/quick N      send quick reply N",
		"/clear        delete chat history",
		"/theme        toggle dark mode",
		"/lang uk|en   change language",
		"/logout       log out",
		"/quit         exit",
	}, "\n"))
}
