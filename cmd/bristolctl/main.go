package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/lightbench/bristol671"
	"go.uber.org/zap"
)

func main() {
	var (
		port    string
		baud    uint
		timeout time.Duration
		every   time.Duration
		count   int
		verbose bool
	)

	flag.StringVar(&port, "port", "/dev/ttyUSB0", "serial port of the wavelength meter")
	flag.UintVar(&baud, "baud", 0, "baud rate override")
	flag.DurationVar(&timeout, "timeout", 2*time.Second, "reply timeout")
	flag.DurationVar(&every, "every", time.Second, "delay between readings")
	flag.IntVar(&count, "n", 1, "number of readings")
	flag.BoolVar(&verbose, "v", false, "trace scpi traffic")
	flag.Parse()

	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		logger = l
	}

	meter, closer, err := bristol671.Open(port, &bristol671.Config{
		BaudRate: baud,
		Timeout:  timeout,
		Logger:   logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	defer func() {
		if err := closer(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	ctx := context.Background()

	idn, err := meter.Identification(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s %s (serial %s, firmware %s)\n", idn.Manufacturer, idn.Model, idn.Serial, idn.Firmware)

	for i := 0; i < count; i++ {
		if i > 0 {
			time.Sleep(every)
		}

		// READ starts a fresh scan, the FETCHes reuse it
		wl, err := meter.Wavelength(ctx, bristol671.Read)
		if err != nil {
			log.Fatal(err)
		}

		f, err := meter.Frequency(ctx, bristol671.Fetch)
		if err != nil {
			log.Fatal(err)
		}

		p, err := meter.Power(ctx, bristol671.Fetch)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf(
			"wavelength %.6f nm, frequency %.6f THz, power %.3f dBm\n",
			wl.Nanometers(), f.Terahertz(), p.DBm(),
		)
	}

	if entries, err := meter.DrainErrorQueue(ctx, 32, false); err == nil {
		for _, e := range entries {
			if e.Code != bristol671.NoError {
				fmt.Printf("instrument error %d: %s\n", int(e.Code), e.Message)
			}
		}
	}
}
