package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yash-srivastava19/canopy/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "canopy: reading .env: %v\n", err)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
