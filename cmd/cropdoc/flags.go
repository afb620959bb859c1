// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --endpoint, --crop, --timeout, --plain, --verbose, --version

package main

import "flag"

type cliArgs struct {
	endpoint string
	crop     string
	timeout  int
	plain    bool
	verbose  bool
	version  bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.endpoint, "endpoint", "", "Diagnosis tool endpoint URL")
	flag.StringVar(&args.crop, "crop", "", "Crop hint (fuzzy-matched against the catalog)")
	flag.IntVar(&args.timeout, "timeout", 0, "Per-image timeout in seconds")
	flag.BoolVar(&args.plain, "plain", false, "Plain markdown output, no terminal styling")
	flag.BoolVar(&args.verbose, "verbose", false, "Log pipeline stages to stderr")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}

// remaining returns the non-flag arguments: the image paths to diagnose.
func (a cliArgs) remaining() []string {
	return flag.Args()
}
