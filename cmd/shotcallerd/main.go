package main

import (
	"fmt"
	"os"

	"shotcaller/internal/backend"
	"shotcaller/internal/version"
)

func main() {
	// Share backend daemon: Postgres-backed conversion store with token auth.
	// Configuration comes from the environment; see internal/backend.
	args := os.Args
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		}
	}

	fmt.Println("shotcallerd — share backend for Shotcaller")
	fmt.Printf("Version: %s\n", version.String())
	if err := backend.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
