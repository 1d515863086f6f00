package main

import (
	"fmt"
	"os"

	"yashubustudio/ideagen/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
