// Command blenddump opens a .blend file and prints its root blocks: a
// one-line summary of every root instance by default, or the full field
// listing of those matching --code.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tamberlane/blend"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		path    string
		code    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "blenddump",
		Short: "Dump root blocks from a .blend file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(path, code)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "path to a .blend file (required)")
	cmd.Flags().StringVar(&code, "code", "", "only print root instances with this 2-character block code")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.MarkFlagRequired("path")

	return cmd
}

func run(path, code string) error {
	log.WithField("path", path).Debug("opening file")

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := blend.New(f)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"pointer_size": b.Header().PointerSize,
		"version":      string(b.Header().Version[:]),
	}).Info("parsed header")

	var instances []blend.Instance
	if code != "" {
		if len(code) != 2 {
			return fmt.Errorf("blenddump: --code must be exactly 2 characters, got %q", code)
		}
		instances = b.InstancesWithCode([2]byte{code[0], code[1]})
	} else {
		instances = b.RootInstances()
	}

	log.WithField("count", len(instances)).Debug("resolved root instances")

	for _, inst := range instances {
		if code != "" {
			fmt.Println(inst.String())
			continue
		}
		c, _ := inst.Code()
		fmt.Printf("%-4s %s @ 0x%x\n", c, inst.TypeName(), inst.MemoryAddress())
	}

	return nil
}
