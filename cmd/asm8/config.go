package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"asm8/project"
)

// Config defines program configuration: the project.Config loaded
// from disk/environment, then overridden field-by-field by whatever
// flags or positional arguments the user actually passed.
type Config struct {
	Input      string
	Output     string
	ListPath   string
	Verbose    bool
	Includes   []string
	Defines    []string
	Quiet      bool
	MaxPasses  int
	FillValue  int64
	DumpAST    bool
	ConfigPath string
}

func parseArgs() *Config {
	var c Config

	var include stringList
	var defines stringList

	flag.Usage = func() {
		fmt.Printf("%s [options] <input source file> [outputfile] [listfile]\n", os.Args[0])
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "Display this help text.")
	help2 := flag.Bool("?", false, "Display this help text.")
	listPlain := flag.Bool("l", false, "Write an assembly listing to <source>.lst (or the listfile argument).")
	listVerbose := flag.Bool("L", false, "Like -l, but also expands REPT/MACRO bodies in the listing.")
	flag.Var(&include, "I", "Add an include search directory (repeatable).")
	flag.Var(&defines, "d", "Predefine a symbol as true, for IFDEF (repeatable: -dNAME).")
	flag.StringVar(&c.ConfigPath, "config", "", "Project configuration file (default: "+project.DefaultFileName+" if present).")
	flag.BoolVar(&c.Quiet, "q", false, "Suppress non-error output.")
	flag.BoolVar(&c.DumpAST, "dump-ast", false, "Print the preprocessed line stream without assembling.")
	version := flag.Bool("version", false, "Display version information.")

	// Accept the attached "-dNAME" spelling as well as "-d NAME".
	args := append([]string(nil), os.Args[1:]...)
	for i, a := range args {
		if len(a) > 2 && strings.HasPrefix(a, "-d") && a[2] != '=' &&
			flag.Lookup(strings.SplitN(a[1:], "=", 2)[0]) == nil {
			args[i] = "-d=" + a[2:]
		}
	}
	_ = flag.CommandLine.Parse(args)

	if *help || *help2 {
		flag.Usage()
		os.Exit(0)
	}

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := project.Load(c.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c.MaxPasses = cfg.MaxPasses
	c.FillValue = cfg.FillValue
	c.Includes = append([]string(nil), cfg.Include...)
	if cfg.Quiet {
		c.Quiet = true
	}

	c.Includes = append(c.Includes, []string(include)...)
	c.Defines = append(c.Defines, []string(defines)...)
	for name := range cfg.Defines {
		c.Defines = append(c.Defines, name)
	}

	c.Input = flag.Arg(0)

	c.Output = withExt(c.Input, ".bin")
	if cfg.OutputPath != "" {
		c.Output = cfg.OutputPath
	}
	if flag.NArg() > 1 {
		c.Output = flag.Arg(1)
	}

	c.Verbose = *listVerbose
	if *listPlain || *listVerbose {
		c.ListPath = withExt(c.Input, ".lst")
	}
	if cfg.ListPath != "" {
		c.ListPath = cfg.ListPath
	}
	if flag.NArg() > 2 {
		c.ListPath = flag.Arg(2)
	}

	return &c
}

// withExt returns path with its extension replaced by ext.
func withExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i] + ext
	}
	return path + ext
}

// stringList implements flag.Value for a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
