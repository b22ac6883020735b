package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. App satisfies it; tests
// use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Articles(ctx context.Context, category string) error
	Article(ctx context.Context, id string) error
	Categories(ctx context.Context) error
	Therapists(ctx context.Context) error
	Therapist(ctx context.Context, id string) error
	Photo(ctx context.Context, id, path string) error
}

const (
	helpLoggedOut = "Available commands: register, login, articles [category], article <id>, categories, therapists, therapist <id>, photo <therapist-id> <file>, exit"
	helpLoggedIn  = "Available commands: profile, articles [category], article <id>, categories, therapists, therapist <id>, photo <therapist-id> <file>, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a until the
// input ends or the user types "exit" or "quit". Handler errors are printed
// and the loop continues.
//
//	help                          show available commands
//	register | login | logout     account management
//	profile                       show the logged-in user
//	articles [category]           list articles, optionally of one category
//	article <id>                  show one article
//	categories                    list article categories
//	therapists                    list the therapist directory
//	therapist <id>                show one therapist
//	photo <therapist-id> <file>   save a therapist's photo to file
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mhst %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
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
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "articles":
			cmdErr = a.Articles(ctx, strings.Join(args, " "))

		case "article":
			if len(args) != 1 {
				printlnFn("Usage: article <id>")
				continue
			}
			cmdErr = a.Article(ctx, args[0])

		case "categories":
			cmdErr = a.Categories(ctx)

		case "therapists":
			cmdErr = a.Therapists(ctx)

		case "therapist":
			if len(args) != 1 {
				printlnFn("Usage: therapist <id>")
				continue
			}
			cmdErr = a.Therapist(ctx, args[0])

		case "photo":
			if len(args) != 2 {
				printlnFn("Usage: photo <therapist-id> <file>")
				continue
			}
			cmdErr = a.Photo(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
