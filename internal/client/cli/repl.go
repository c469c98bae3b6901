package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Guest(ctx context.Context) error
	Logout(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error

	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error

	Notifications(ctx context.Context) error
	Notify(ctx context.Context, title string) error
	Read(ctx context.Context, id string) error
	ReadAll(ctx context.Context) error
	Clear(ctx context.Context) error
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error

	Settings(ctx context.Context) error
	Theme(ctx context.Context, theme string) error
	Language(ctx context.Context, lang string) error
}

const (
	helpSignedIn  = "Available commands: whoami, profile, passwd, notifications, notify <title>, read <id>, readall, clear, enable, disable, settings, theme <name>, language <code>, logout, exit"
	helpSignedOut = "Available commands: register, login, guest, forgot, reset, notifications, notify <title>, read <id>, readall, clear, enable, disable, settings, theme <name>, language <code>, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// Lines are read from the same reader the command prompts use, so a
// command that asks for more input consumes the following lines. Handler
// errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gm %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "guest":
			cmdErr = a.Guest(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "forgot":
			cmdErr = a.Forgot(ctx)
		case "reset":
			cmdErr = a.Reset(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "passwd":
			cmdErr = a.Passwd(ctx)

		case "n", "notifications":
			cmdErr = a.Notifications(ctx)
		case "notify":
			if len(args) == 0 {
				printlnFn("Usage: notify <title>")
				continue
			}
			cmdErr = a.Notify(ctx, strings.Join(args, " "))
		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <id>")
				continue
			}
			cmdErr = a.Read(ctx, args[0])
		case "readall":
			cmdErr = a.ReadAll(ctx)
		case "clear":
			cmdErr = a.Clear(ctx)
		case "enable":
			cmdErr = a.Enable(ctx)
		case "disable":
			cmdErr = a.Disable(ctx)

		case "settings":
			cmdErr = a.Settings(ctx)
		case "theme":
			if len(args) == 0 {
				printlnFn("Usage: theme <light|dark|system>")
				continue
			}
			cmdErr = a.Theme(ctx, args[0])
		case "language":
			if len(args) == 0 {
				printlnFn("Usage: language <code>")
				continue
			}
			cmdErr = a.Language(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
