package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolgate/toolgate"
	"github.com/toolgate/toolgate/internal/presentation/tui"
	"github.com/toolgate/toolgate/pkg/schema"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <vendor>",
	Short: "List a vendor's tools and their argument schemas",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		vendor := args[0]

		gate, _, err := buildGate(cmd, vendor)
		if err != nil {
			fmt.Printf("Error initializing toolgate: %v\n", err)
			os.Exit(1)
		}

		render := tui.NewRenderer(os.Stdout)
		fmt.Print(render(toolListing(gate)))
	},
}

// toolListing builds the markdown capability catalog, one section per tool,
// in registration order.
func toolListing(gate *toolgate.Gate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s tools\n\n", gate.Vendor)

	for _, desc := range gate.Registry.List() {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", desc.Name, desc.Description)
		if len(desc.Credentials) > 0 {
			fmt.Fprintf(&b, "Credentials: `%s`\n\n", strings.Join(desc.Credentials, "`, `"))
		}

		names := make([]string, 0, len(desc.Args.Fields))
		for name := range desc.Args.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			field := desc.Args.Fields[name]
			b.WriteString(fieldLine(name, field))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func fieldLine(name string, field schema.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- `%s` (%s", name, field.Type.Name())
	if field.Required {
		b.WriteString(", required")
	}
	if field.Default != nil {
		fmt.Fprintf(&b, ", default %v", field.Default)
	}
	b.WriteString(")")
	if field.Description != "" {
		fmt.Fprintf(&b, " %s", field.Description)
	}
	b.WriteString("\n")
	return b.String()
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
