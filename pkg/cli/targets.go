package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var targetsCommand = &cli.Command{
	Name:  "targets",
	Usage: "List the targets in the registry with their fallback chains",
	Action: func(c *cli.Context) error {
		reg, err := loadRegistry(c)
		if err != nil {
			return err
		}

		for _, name := range reg.Names() {
			t, _ := reg.Lookup(name)
			fmt.Printf("%s (attempts=%d, timeout=%s)\n", t.Name, t.MaxAttempts, t.Timeout)
			for i, s := range t.Strategies {
				fmt.Printf("  %d. %s\n", i, s.Describe())
			}
		}
		return nil
	},
}
