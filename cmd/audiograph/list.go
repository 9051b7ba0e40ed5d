package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/pipelined/audiograph/vst2"
)

// stringList collects semicolon separated flag values.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ";")
}

func (l *stringList) Set(value string) error {
	for _, v := range strings.Split(value, ";") {
		if v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}

type listCommand struct {
	scan stringList
}

func (cmd *listCommand) Name() string {
	return "list"
}

func (cmd *listCommand) Help() string {
	return "Show the list of available vst2 plugins"
}

func (cmd *listCommand) Register(fs *flag.FlagSet) {
	fs.Var(&cmd.scan, "scan", "semicolon separated paths to scan for plugins")
}

func (cmd *listCommand) Run() error {
	paths := append(vst2.ScanPaths(), cmd.scan...)
	fmt.Println("Scan paths:")
	for _, path := range paths {
		fmt.Printf("\t%v\n", path)
	}

	found := vst2.Scan(paths...)
	fmt.Println("Available plugins:")
	if len(found) == 0 {
		fmt.Println("\t[no plugins found]")
		return nil
	}
	for _, path := range found {
		fmt.Printf("\t%v\n", path)
	}
	return nil
}
