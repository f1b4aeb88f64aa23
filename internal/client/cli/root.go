package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Run starts the interactive loop. It blocks until the user exits or stdin
// is closed.
func (a *App) Run(ctx context.Context) {

	fmt.Println("Welcome to Grudgekeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("grudge %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, add, update, delete, avatar, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "l", "list":
			a.list(ctx)
		case "add":
			a.add(ctx)
		case "update":
			a.update(ctx)
		case "delete":
			a.delete(ctx)
		case "avatar":
			a.avatar(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
