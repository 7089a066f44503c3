package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"

	"github.com/SoerenFox/pytr-Modified/cmd"
	"github.com/SoerenFox/pytr-Modified/utils/log"
)

// This is the launcher for the command line client.

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChannel := make(chan os.Signal, 1)
	go func() {
		for sig := range sigChannel {
			switch sig {
			case syscall.SIGUSR1:
				log.Info("dumping stack traces due to SIGUSR1 request")
				_ = pprof.Lookup("goroutine").WriteTo(os.Stdout, 1)
			case syscall.SIGINT:
				// While the prompt is open the default disposition is
				// restored, so a second Ctrl+C kills the process.
				signal.Reset(syscall.SIGINT)
				if confirmQuit(os.Stdin, os.Stderr) {
					log.Info("shutting down")
					cancel()
					return
				}
				signal.Notify(sigChannel, syscall.SIGINT)
			case syscall.SIGTERM:
				log.Info("shutting down")
				cancel()
				return
			}
		}
	}()
	signal.Notify(sigChannel, syscall.SIGUSR1, syscall.SIGINT, syscall.SIGTERM)

	if err := cmd.Execute(ctx); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

// confirmQuit asks before a Ctrl+C aborts in-flight work such as a
// running document download or a pending 2FA code entry. A closed
// stdin counts as a yes.
func confirmQuit(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "\nDo you really want to exit? [y/N] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
