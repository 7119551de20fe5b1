// Package main implements the nesgo command line emulator executable.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nesgo/internal/app"
	"nesgo/internal/display"
	"nesgo/internal/version"
)

func main() {
	var (
		romPath    = flag.String("f", "", "path to an iNES ROM file")
		trace      = flag.Bool("t", false, "log each executed instruction to stderr")
		singleStep = flag.Bool("s", false, "run one instruction per Enter keypress on stdin")
		headless   = flag.Bool("headless", false, "run without a host window, for tests and CI")
		showVer    = flag.Bool("version", false, "print version information and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Println(version.Get().String())
		return
	}

	if *romPath == "" {
		log.Fatal("nesgo: -f <rom path> is required")
	}

	backend := display.New(display.Config{
		Title:    "nesgo",
		Width:    512,
		Height:   480,
		Headless: *headless,
	})
	defer backend.Cleanup()

	window, err := backend.CreateWindow("nesgo", 512, 480)
	if err != nil {
		log.Fatalf("nesgo: creating window: %v", err)
	}
	defer window.Cleanup()

	scheduler := app.New(window)
	scheduler.Trace = *trace
	if err := scheduler.LoadROM(*romPath); err != nil {
		log.Fatalf("nesgo: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		scheduler.Quit()
	}()

	if *singleStep {
		runSingleStep(scheduler)
		return
	}

	if runner, ok := window.(interface{ Run() error }); ok && !*headless {
		// ebiten owns the event loop once started, so frames are driven
		// from a background goroutine and handed to the window through
		// RenderFrame; the Update/Draw callbacks only present them.
		go func() {
			if err := scheduler.Run(0); err != nil {
				log.Fatalf("nesgo: %v\n%s", err, scheduler.Dump())
			}
		}()
		if err := runner.Run(); err != nil {
			log.Fatalf("nesgo: %v", err)
		}
		return
	}

	if err := scheduler.Run(0); err != nil {
		log.Fatalf("nesgo: %v\n%s", err, scheduler.Dump())
	}
}

// runSingleStep executes one MPU instruction per line of stdin input
// until EOF or an MPU fault.
func runSingleStep(scheduler *app.Scheduler) {
	input := bufio.NewScanner(os.Stdin)
	for input.Scan() {
		if err := scheduler.StepInstruction(); err != nil {
			log.Fatalf("nesgo: %v\n%s", err, scheduler.Dump())
		}
	}
}
