package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/kpauljoseph/flashlearn/internal/preflight"
	"github.com/kpauljoseph/flashlearn/pkg/logger"
)

func main() {
	path := flag.String("file", "", "Path to the file to check")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()

	if *path == "" {
		fmt.Println("Please provide a file path using -file flag")
		os.Exit(1)
	}

	log := logger.New(logger.WithPrefix("[inspect] "), logger.WithVerbose(*verbose))

	fmt.Printf("Inspecting upload: %s\n", *path)

	report, err := preflight.NewInspector(nil, log).Inspect(context.Background(), *path)
	if err != nil {
		var rejected *preflight.RejectedError
		if errors.As(err, &rejected) {
			fmt.Printf("Rejected: %s\n", rejected.Message)
		} else {
			fmt.Printf("Error inspecting file: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Type:     .%s\n", report.Extension)
	fmt.Printf("Pages:    %d\n", report.Pages)
	fmt.Printf("Has text: %t\n", report.HasText)
	fmt.Printf("SHA-256:  %s\n", report.Hash)
}
