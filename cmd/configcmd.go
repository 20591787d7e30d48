package cmd

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nibzard/todolist-go/internal/config"
)

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todolist config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example todolist.toml")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	if path := cws.GetConfigFile(); path != "" {
		fmt.Printf("Config file: %s\n", path)
	} else {
		fmt.Println("Config file: (none)")
	}
	fmt.Printf("Project root: %s\n", cws.Config.ProjectRoot)
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, name := range config.ConfigFields() {
		value := cws.Config.Value(name)
		if value == "" {
			value = "-"
		}
		source := cws.Sources[name]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, value, source)
	}
	return tw.Flush()
}
