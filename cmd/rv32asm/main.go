// Command rv32asm assembles RV32IMAC source into a flat binary.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"flag"

	"github.com/rv32tools/rv32asm/assembler"
	"github.com/rv32tools/rv32asm/config"
	"github.com/rv32tools/rv32asm/listing"
	"github.com/rv32tools/rv32asm/tools"
)

const version = "0.1.0"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		outPath     = flag.String("o", "bb.out", "Output binary path")
		compress    = flag.Bool("compress", false, "Enable the compressed-instruction transform")
		configPath  = flag.String("config", "", "Path to an asm.toml config file (default: platform config dir)")
		listingFlag = flag.Bool("listing", false, "Write a .lst symbol table listing alongside the output")
		format      = flag.String("format", "", "Output format: bin or hex (default: from config, else bin)")
		browse      = flag.Bool("browse", false, "Open the interactive symbol browser instead of exiting")
		lint        = flag.Bool("lint", false, "Report static issues and exit without assembling")
		verbose     = flag.Bool("v", false, "Verbose operational logging")
		veryVerbose = flag.Bool("vv", false, "Verbose logging plus unused-label/unused-constant warnings")
	)

	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("rv32asm %s\n", version)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	logger := log.New(os.Stderr, "", 0)
	if !*verbose && !*veryVerbose {
		logger.SetOutput(os.Stderr)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	useCompress := *compress || cfg.Assemble.Compress
	outFormat := cfg.Output.Format
	if *format != "" {
		outFormat = *format
	}
	if outFormat != "bin" && outFormat != "hex" {
		fmt.Fprintf(os.Stderr, "Error: unrecognized -format %q (want bin or hex)\n", outFormat)
		os.Exit(1)
	}

	srcPath := flag.Arg(0)
	srcBytes, err := os.ReadFile(srcPath) // #nosec G304 -- user-supplied source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *lint {
		issues := tools.Lint(srcPath, string(srcBytes))
		exitCode := 0
		for _, issue := range issues {
			fmt.Fprintln(os.Stderr, issue.String())
			if issue.Level == tools.LintError {
				exitCode = 1
			}
		}
		os.Exit(exitCode)
	}

	if *verbose || *veryVerbose {
		logger.Printf("assembling %s (compress=%v)", srcPath, useCompress)
	}

	result, errs := assembler.Assemble(srcPath, string(srcBytes), useCompress)
	if errs.HasErrors() {
		fmt.Fprint(os.Stderr, errs.Error())
		os.Exit(1)
	}

	if *veryVerbose {
		for _, w := range errs.Warnings {
			if strings.HasPrefix(w.Message, "unused label:") && !cfg.Diagnostics.WarnUnusedLabels {
				continue
			}
			if strings.HasPrefix(w.Message, "unused constant:") && !cfg.Diagnostics.WarnUnusedConsts {
				continue
			}
			fmt.Fprintln(os.Stderr, w.String())
		}
	}

	out := result.Bytes
	if cfg.Assemble.PadTo > 0 && len(out) < cfg.Assemble.PadTo {
		padded := make([]byte, cfg.Assemble.PadTo)
		copy(padded, out)
		out = padded
	}

	if err := writeOutput(*outPath, out, outFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	if *listingFlag || cfg.Output.Listing {
		lstPath := strings.TrimSuffix(*outPath, filepath.Ext(*outPath)) + ".lst"
		if err := os.WriteFile(lstPath, []byte(listing.WriteSymbolTable(result.Symbols)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing listing: %v\n", err)
			os.Exit(1)
		}
		if *verbose || *veryVerbose {
			logger.Printf("wrote listing %s", lstPath)
		}
	}

	if *verbose || *veryVerbose {
		logger.Printf("wrote %d bytes to %s", len(out), *outPath)
	}

	if *browse {
		b := listing.NewBrowser(result.Symbols)
		if err := b.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Browser error: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func writeOutput(path string, data []byte, format string) error {
	switch format {
	case "hex":
		return os.WriteFile(path, []byte(listing.WriteIntelHex(data)), 0644)
	default:
		return os.WriteFile(path, data, 0644)
	}
}

func printHelp() {
	fmt.Printf(`rv32asm %s - RV32IMAC flat-binary assembler

Usage: rv32asm [options] <source-file>

Options:
  -o PATH        Output binary path (default: bb.out)
  -compress      Enable the compressed-instruction (RVC) transform
  -config PATH   Path to an asm.toml config file (default: platform config dir)
  -format FMT    Output format: bin or hex (default: from config, else bin)
  -listing       Write a .lst symbol table listing alongside the output
  -browse        Open the interactive symbol browser instead of exiting
  -lint          Report static issues and exit without assembling
  -v             Verbose operational logging
  -vv            Verbose logging plus unused-label/unused-constant warnings
  -version       Show version information

Examples:
  rv32asm program.s
  rv32asm -compress -o program.bin program.s
  rv32asm -format hex -o program.hex program.s
  rv32asm -listing -browse program.s
`, version)
}
