// Package main provides the Primer ML Framework CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Primer ML Framework %s\n", version)
			return
		case "langid":
			runLangID(os.Args[2:])
			return
		}
	}

	fmt.Println("Primer ML Framework - Deep Learning Fundamentals in Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  langid     Train the bag-of-words language classifier demo")
}
