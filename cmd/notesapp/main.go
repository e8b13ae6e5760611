package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/suryansh924/NotesApp-AI/pkg/notesapp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := notesapp.Main(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
