package main

import (
	"log"
	"os"

	"wabackup/cmd"
	"wabackup/config"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration %s", err)
	}
	if err := cmd.Execute(cnf); err != nil {
		log.Printf("Error: %s", err)
		os.Exit(1)
	}
}
