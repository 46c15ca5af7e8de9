// Package main renders recorded sessions into video.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	inspectcmd "github.com/slidereel/slidereel/internal/cmd/inspect"
	rendercmd "github.com/slidereel/slidereel/internal/cmd/render"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: slidereel <render|inspect> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "render":
		cfg, err := rendercmd.ParseConfig(flag.NewFlagSet("render", flag.ExitOnError), os.Args[2:])
		if err != nil {
			log.Fatalf("parse flags: %v", err)
		}
		log.SetPrefix("[RENDER] ")
		if err := rendercmd.Run(ctx, cfg); err != nil {
			log.Fatalf("render failed: %v", err)
		}
	case "inspect":
		cfg, err := inspectcmd.ParseConfig(flag.NewFlagSet("inspect", flag.ExitOnError), os.Args[2:])
		if err != nil {
			log.Fatalf("parse flags: %v", err)
		}
		log.SetPrefix("[INSPECT] ")
		if err := inspectcmd.Run(ctx, cfg, os.Stdout); err != nil {
			log.Fatalf("inspect failed: %v", err)
		}
	default:
		usage()
	}
}
