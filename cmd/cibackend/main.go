package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
	"github.com/m1gwings/treedrawer/tree"
	"golang.org/x/text/message"

	"github.com/tetratelabs/cibackend"
	"github.com/tetratelabs/cibackend/api"
	"github.com/tetratelabs/cibackend/internal/i386"
)

func main() {
	doMain(os.Stdout, os.Stderr, os.Exit)
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer, exit func(code int)) {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "print usage")

	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		exit(0)
		return
	}

	subCmd := flag.Arg(0)
	switch subCmd {
	case "describe":
		doBackend(subCmd, flag.Args()[1:], stdOut, stdErr, exit, printDescription)
	case "features":
		doBackend(subCmd, flag.Args()[1:], stdOut, stdErr, exit, printFeatures)
	default:
		fmt.Fprintln(stdErr, "invalid command")
		printUsage(stdErr)
		exit(1)
	}
}

type printFunc func(p *message.Printer, stdOut io.Writer, b api.Backend)

func doBackend(subCmd string, args []string, stdOut, stdErr io.Writer, exit func(code int), report printFunc) {
	flags := flag.NewFlagSet(subCmd, flag.ContinueOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "print usage")

	var configPath string
	flags.StringVar(&configPath, "config", "", "Starlark file describing the host configuration.")

	var native bool
	flags.BoolVar(&native, "native", false, "Use the configuration of the running CPU instead of -config.")

	var envPrefix string
	flags.StringVar(&envPrefix, "env", "",
		"Prefix of environment variables overriding configuration entries, e.g. CIB_ for CIB_USESSE.")

	var timing bool
	flags.BoolVar(&timing, "timing", false, "Print the duration of each assembly step to stderr.")

	var lang string
	flags.StringVar(&lang, "lang", "", "Language of the report. Defaults to the locale of the user.")

	if err := flags.Parse(args); err != nil {
		exit(1)
		return
	}

	if help {
		printBackendUsage(stdErr, subCmd, flags)
		exit(0)
		return
	}

	var source api.ConfigSource
	switch {
	case native && configPath != "":
		fmt.Fprintln(stdErr, "-config and -native are mutually exclusive")
		printBackendUsage(stdErr, subCmd, flags)
		exit(1)
		return
	case native:
		source = cibackend.NativeConfig()
	case configPath != "":
		var err error
		if source, err = cibackend.LoadConfig(configPath); err != nil {
			fmt.Fprintf(stdErr, "error reading host configuration: %v\n", err)
			exit(1)
			return
		}
	default:
		fmt.Fprintln(stdErr, "missing -config or -native")
		printBackendUsage(stdErr, subCmd, flags)
		exit(1)
		return
	}
	if envPrefix != "" {
		source = cibackend.WithEnvironment(source, envPrefix)
	}

	config := cibackend.NewBackendConfig()
	if timing {
		config = config.WithInitTimer(stdErr)
	}

	b, err := cibackend.NewBackend(source, config)
	switch {
	case errors.Is(err, api.ErrMissingBaseline):
		fmt.Fprintf(stdErr, "host is not supported: %v\n", err)
		exit(1)
		return
	case err != nil:
		fmt.Fprintf(stdErr, "error assembling backend: %v\n", err)
		exit(1)
		return
	}

	report(newPrinter(lang, stdErr), stdOut, b)
	exit(0)
}

// newPrinter returns a printer for lang, or for the locale of the user if lang is empty.
func newPrinter(lang string, stdErr io.Writer) *message.Printer {
	locales := []string{lang}
	if lang == "" {
		var err error
		if locales, err = locale.GetLocales(); err != nil {
			fmt.Fprintf(stdErr, "locale: %v\n", err)
		}
		if len(locales) == 0 {
			locales = []string{"en-US"}
		}
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}

func printDescription(p *message.Printer, stdOut io.Writer, b api.Backend) {
	target := b.Target()
	arch := target.Arch()
	rc := b.RegisterConfig()

	root := tree.NewTree(tree.NodeString(arch.Name()))
	root.AddChild(tree.NodeString("target")).AddChild(tree.NodeString(p.Sprintf(
		"word %d bytes, stack alignment %d, null check limit %d",
		target.WordSize(), target.StackAlignment(), target.ImplicitNullCheckLimit())))
	if a, ok := arch.(*i386.Architecture); ok {
		root.AddChild(tree.NodeString("features")).AddChild(tree.NodeString(a.Features().String()))
		root.AddChild(tree.NodeString("flags")).AddChild(tree.NodeString(a.Flags().String()))
	}

	kinds := root.AddChild(tree.NodeString("kinds"))
	for _, t := range api.ValueTypes {
		kind := "(none)"
		if k, ok := arch.PlatformKind(t); ok {
			kind = k.String()
		}
		kinds.AddChild(tree.NodeString(api.ValueTypeName(t) + " " + kind))
	}

	allocatable := api.NewRegisterSet(rc.AllocatableRegisters().Slice()...)
	for _, c := range i386.Categories() {
		regs := arch.AllRegisters().Filter(func(r api.Register) bool { return r.Category() == c })
		node := c.Name()
		if widest, ok := arch.LargestStorableKind(c); ok {
			node += " " + widest.String()
		}
		category := root.AddChild(tree.NodeString(node))
		if regs.Len() == 0 {
			category.AddChild(tree.NodeString("(none)"))
			continue
		}
		names := make([]string, 0, regs.Len())
		asmNames := make([]string, 0, regs.Len())
		regs.Range(func(r api.Register) bool {
			name := r.Name()
			if !allocatable.Has(r) {
				name += "*"
			}
			names = append(names, name)
			asmNames = append(asmNames, i386.AssemblerRegisterName(r))
			return true
		})
		category.AddChild(tree.NodeString(strings.Join(names, " ")))
		category.AddChild(tree.NodeString("asm " + strings.Join(asmNames, " ")))
	}

	fmt.Fprintln(stdOut, root)
	values := arch.AvailableValueRegisters()
	reserved := api.NewRegisterSet(values.Slice()...) &^ allocatable
	p.Fprintf(stdOut, "%d registers, %d allocatable (* reserved: %s)\n",
		values.Len(), rc.AllocatableRegisters().Len(), reserved.Format(values))
}

func printFeatures(p *message.Printer, stdOut io.Writer, b api.Backend) {
	a, ok := b.Target().Arch().(*i386.Architecture)
	if !ok {
		return
	}
	for _, f := range a.Features().List() {
		fmt.Fprintln(stdOut, f)
	}
	p.Fprintf(stdOut, "%d of %d features\n", a.Features().Len(), int(i386.NumCPUFeatures))
}

func printUsage(stdErr io.Writer) {
	fmt.Fprintln(stdErr, "cibackend CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  cibackend <command>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Commands:")
	fmt.Fprintln(stdErr, "  describe\tPrints the architecture, target and registers of a host")
	fmt.Fprintln(stdErr, "  features\tPrints the CPU features of a host")
}

func printBackendUsage(stdErr io.Writer, subCmd string, flags *flag.FlagSet) {
	fmt.Fprintln(stdErr, "cibackend CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintf(stdErr, "Usage:\n  cibackend %s <options>\n", subCmd)
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flags.PrintDefaults()
}
