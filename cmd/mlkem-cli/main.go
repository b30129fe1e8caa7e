// Package main provides the mlkem-cli command line interface for ML-KEM
// operations.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	mlkem "github.com/BackendStack21/ml-kem-go"
)

const (
	version = "1.0.0"
	appName = "mlkem-cli"

	logLevelFlag = "loglevel"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := &cli.App{}
	app.Name = appName
	app.Usage = "ML-KEM (FIPS 203) post-quantum key encapsulation"
	app.Version = fmt.Sprintf("%s (library %s)", version, mlkem.Version)
	app.HideVersion = true
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    logLevelFlag,
			Value:   "info",
			Usage:   "Application logging level {debug, info, warn, error}",
			EnvVars: []string{"MLKEM_LOGLEVEL"},
		},
	}
	app.Commands = commands()
	return app
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "keygen",
			Usage:  "Generate a new key pair",
			Action: keygen,
			Flags: []cli.Flag{
				levelFlag(),
				outputFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:  "seed",
					Usage: "Derive the key pair from this 64-byte hex seed d || z instead of fresh randomness",
				},
			},
		},
		{
			Name:    "encapsulate",
			Aliases: []string{"encap"},
			Usage:   "Create a shared secret and the ciphertext that carries it",
			Action:  encapsulate,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "public-key",
					Aliases:  []string{"pk"},
					Usage:    "Key pair or public key file",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "message",
					Usage: "Encapsulate deterministically with this 32-byte hex message",
				},
				outputFlag(),
				formatFlag(),
			},
		},
		{
			Name:    "decapsulate",
			Aliases: []string{"decap"},
			Usage:   "Recover the shared secret from a ciphertext",
			Action:  decapsulate,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "secret-key",
					Aliases:  []string{"sk"},
					Usage:    "Key pair file",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "ciphertext",
					Aliases:  []string{"ct"},
					Usage:    "Encapsulation file",
					Required: true,
				},
				outputFlag(),
				formatFlag(),
			},
		},
		{
			Name:   "inspect",
			Usage:  "Validate a key or ciphertext file and describe its contents",
			Action: inspect,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"f"},
					Usage:    "File to inspect",
					Required: true,
				},
			},
		},
		{
			Name:   "benchmark",
			Usage:  "Measure key generation, encapsulation and decapsulation latency",
			Action: benchmark,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "level",
					Usage: "Parameter sets to measure (repeatable); all three when omitted",
				},
				&cli.IntFlag{
					Name:    "iterations",
					Aliases: []string{"n"},
					Value:   10,
					Usage:   "Operations per parameter set",
				},
				&cli.IntFlag{
					Name:  "parallel",
					Value: 1,
					Usage: "Number of parameter sets measured concurrently",
				},
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Print results as JSON",
				},
			},
		},
		{
			Name:  "version",
			Usage: "Show version information",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s version %s\n", appName, version)
				fmt.Fprintf(c.App.Writer, "ML-KEM library version %s\n", mlkem.Version)
				return nil
			},
		},
	}
}

func levelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "level",
		Aliases: []string{"l"},
		Value:   string(mlkem.MLKEM768),
		Usage:   "Parameter set {ML-KEM-512, ML-KEM-768, ML-KEM-1024}",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file; .yaml or .yml selects YAML, anything else JSON (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: string(FormatHex),
		Usage: "Byte encoding inside the output file {hex, base64}",
	}
}
