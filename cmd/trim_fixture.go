package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"vaspio/internal/oszicar"
	"vaspio/internal/outcar"
	"vaspio/internal/source"
)

// forceRule is the separator written around generated force tables
var forceRule = " " + strings.Repeat("-", 83)

func main() {
	var (
		kind        = flag.String("kind", "oszicar", "Input kind (oszicar|outcar)")
		inputFile   = flag.String("in", "", "Path to the OSZICAR or OUTCAR to trim (default: the VASP file name for -kind)")
		startStep   = flag.Int("start-step", 1, "First ionic step to keep (1-based)")
		endStep     = flag.Int("end-step", -1, "Last ionic step to keep (-1 for all)")
		outputFile  = flag.String("output", "", "Output fixture path (prints to stdout if not specified)")
		name        = flag.String("name", "Generated fixture", "Fixture name")
		description = flag.String("desc", "Trimmed from a VASP run", "Fixture description")
	)
	flag.Parse()

	lines, err := trimWithRange(*kind, *inputFile, *startStep, *endStep)
	if err != nil {
		fmt.Printf("Error trimming %s: %v\n", *kind, err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := writeFixtureToFile(lines, *outputFile, *name, *description); err != nil {
			fmt.Printf("Error writing fixture file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated fixture: %s\n", *outputFile)
	} else {
		printFixture(os.Stdout, lines, *name, *description)
	}
}

func inRange(step, startStep, endStep int) bool {
	return step >= startStep && (endStep == -1 || step <= endStep)
}

func trimWithRange(kind, filename string, startStep, endStep int) ([]string, error) {
	switch kind {
	case "oszicar":
		if filename == "" {
			filename = source.DefaultOszicar
		}
		return trimOszicar(filename, startStep, endStep)
	case "outcar":
		if filename == "" {
			filename = source.DefaultOutcar
		}
		return trimOutcar(filename, startStep, endStep)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// trimOszicar keeps the matched step lines verbatim
func trimOszicar(filename string, startStep, endStep int) ([]string, error) {
	file, err := source.New(filename, "")
	if err != nil {
		return nil, err
	}
	p, err := oszicar.Open(context.Background(), file, nil)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(p.Content()))
	for scanner.Scan() {
		record, ok := oszicar.ParseLine(scanner.Text())
		if ok && inRange(record.Step, startStep, endStep) {
			lines = append(lines, scanner.Text())
		}
	}
	return lines, scanner.Err()
}

// trimOutcar rewrites the kept force tables in canonical layout. Everything
// outside the tables is dropped.
func trimOutcar(filename string, startStep, endStep int) ([]string, error) {
	file, err := source.New(filename, "")
	if err != nil {
		return nil, err
	}

	var lines []string
	for block, err := range outcar.New(file).All(context.Background()) {
		if err != nil {
			return nil, err
		}
		if !inRange(block.Step, startStep, endStep) {
			continue
		}

		lines = append(lines, " POSITION                                       TOTAL-FORCE (eV/Angst)", forceRule)
		for i, c := range block.Coordinates {
			f := block.Forces[i]
			lines = append(lines, fmt.Sprintf(" %12.5f %12.5f %12.5f   %14.6f %13.6f %13.6f",
				c[0], c[1], c[2], f[0], f[1], f[2]))
		}
		lines = append(lines, forceRule, "")
	}
	return lines, nil
}

func printFixture(w io.Writer, lines []string, name, description string) {
	fmt.Fprintf(w, "# %s\n", name)
	fmt.Fprintf(w, "# %s\n\n", description)

	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func writeFixtureToFile(lines []string, filename, name, description string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	printFixture(file, lines, name, description)
	return nil
}
