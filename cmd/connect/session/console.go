// Package session
// This file is the hub of the `session` package. The `Console` struct defined
// here owns the websocket client and has the responsibility of interpreting
// user inputs.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/SoerenFox/pytr-Modified/api"
	"github.com/SoerenFox/pytr-Modified/utils"
)

// Subscriber is the websocket subset the console needs.
type Subscriber interface {
	Subscribe(ctx context.Context, payload map[string]interface{}) (*api.Subscription, error)
}

func NewConsole(sub Subscriber) *Console {
	return &Console{
		sub:    sub,
		active: map[int]*api.Subscription{},
	}
}

// Console is the interactive websocket shell.
type Console struct {
	sub Subscriber

	mu     sync.Mutex
	active map[int]*api.Subscription
	wg     sync.WaitGroup
}

// Read kicks off the buffer reading process.
func (c *Console) Read(ctx context.Context) error {
	// Build reader.
	r, err := newReader()
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Fprintf(os.Stderr, "Type `\\help` to see command options\n")

	// User input evaluation loop.
EVAL:
	for {
		// Read input.
		line, err := r.Readline()

		// Terminate evaluation.
		if errors.Is(err, io.EOF) {
			break EVAL
		}

		// Printed interrupt prompt.
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}

		// Print error.
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			continue
		}

		// Remove leading/trailing spaces.
		line = strings.Trim(line, " ")

		// Evaluate.
		switch {
		case strings.HasPrefix(line, `\unsub`):
			c.unsub(line)
		case strings.HasPrefix(line, `\subs`):
			c.listSubs()
		case strings.HasPrefix(line, `\help`) || strings.HasPrefix(line, `\?`):
			c.functionHelp(line)
		case line == "help":
			c.functionHelp(`\help`)
		// Quit.
		case line == `\stop`, line == `\quit`, line == `\q`, line == `exit`:
			break EVAL
			// Nothing to do.
		case line == "":
			continue EVAL
		// It was a raw subscribe payload.
		default:
			c.subscribe(ctx, line)
		}
	}

	c.closeAll()
	c.wg.Wait()
	return nil
}

// subscribe sends a raw payload. Bare words become {"type": <word>},
// everything else must be a JSON object.
func (c *Console) subscribe(ctx context.Context, line string) {
	payload, err := parsePayload(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}

	sub, err := c.sub.Subscribe(ctx, payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return
	}
	c.mu.Lock()
	c.active[sub.ID] = sub
	c.mu.Unlock()
	fmt.Printf("subscribed %d\n", sub.ID)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			msg, err := sub.Next(ctx)
			switch {
			case errors.Is(err, api.ErrCompleted), errors.Is(err, context.Canceled):
				c.drop(sub.ID)
				return
			case err != nil:
				fmt.Fprintf(os.Stderr, "[%d] ERROR: %v\n", sub.ID, err)
				c.drop(sub.ID)
				return
			}
			fmt.Printf("[%d] ", sub.ID)
			_ = utils.DumpJSON(os.Stdout, msg)
		}
	}()
}

func (c *Console) unsub(line string) {
	args := strings.Fields(line)
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Syntax: \\unsub <id>\n")
		return
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: bad subscription id %q\n", args[1])
		return
	}

	c.mu.Lock()
	sub, ok := c.active[id]
	delete(c.active, id)
	c.mu.Unlock()
	if !ok {
		fmt.Fprintf(os.Stderr, "ERROR: no active subscription %d\n", id)
		return
	}
	if err := sub.Unsubscribe(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	}
}

func (c *Console) listSubs() {
	c.mu.Lock()
	ids := make([]int, 0, len(c.active))
	for id := range c.active {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	sort.Ints(ids)
	if len(ids) == 0 {
		fmt.Println("no active subscriptions")
		return
	}
	for _, id := range ids {
		fmt.Printf("subscription %d\n", id)
	}
}

func (c *Console) drop(id int) {
	c.mu.Lock()
	delete(c.active, id)
	c.mu.Unlock()
}

func (c *Console) closeAll() {
	c.mu.Lock()
	subs := make([]*api.Subscription, 0, len(c.active))
	for _, sub := range c.active {
		subs = append(subs, sub)
	}
	c.active = map[int]*api.Subscription{}
	c.mu.Unlock()
	for _, sub := range subs {
		_ = sub.Unsubscribe()
	}
}

func newReader() (*readline.Instance, error) {
	// Determine history file path.
	usr, err := user.Current()
	if err != nil {
		return nil, errors.New("unable to obtain home directory")
	}
	history := filepath.Join(usr.HomeDir, ".pytrConsoleHistory")

	// Register commands with autocompletion.
	autoComplete := readline.NewPrefixCompleter(
		readline.PcItem(`\subs`),
		readline.PcItem(`\unsub`),
		readline.PcItem(`\help`),
		readline.PcItem(`\quit`),
		readline.PcItem(`\q`),
		readline.PcItem(`\?`),
		readline.PcItem(`\stop`),
		readline.PcItem(`portfolio`),
		readline.PcItem(`compactPortfolio`),
		readline.PcItem(`cash`),
		readline.PcItem(`orders`),
		readline.PcItem(`watchlist`),
		readline.PcItem(`timelineTransactions`),
	)

	// Build config.
	config := &readline.Config{
		Prompt:          "\033[31m»\033[0m ",
		HistoryFile:     history,
		AutoComplete:    autoComplete,
		InterruptPrompt: "\nInterrupt, Press Ctrl+D to exit",
		EOFPrompt:       "exit",
	}

	// return reader.
	return readline.NewEx(config)
}
