package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// pluralKeys maps an entity name to the payload key its list rides under.
var pluralKeys = map[string]string{
	"size":           "sizes",
	"oslanguage":     "oslanguages",
	"osfamily":       "osfamilies",
	"location":       "locations",
	"endpoint":       "endpoints",
	"approvalpolicy": "approvalpolicies",
	"ostemplate":     "ostemplates",
	"catalog":        "catalogs",
}

func validEntity(name string) error {
	if !knownEntities[name] {
		return fmt.Errorf("unknown entity %q", name)
	}
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "List rows of an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity := args[0]
		if err := validEntity(entity); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		envelope, err := newClient().do("GET",
			fmt.Sprintf("/%s?page=%d&limit=%d", entity, page, limit))
		if err != nil {
			return err
		}
		fmt.Printf("count=%v pages=%v\n", envelope["count"], envelope["pages"])
		return printJSON(envelope[pluralKeys[entity]])
	},
}

var getCmd = &cobra.Command{
	Use:   "get <entity> <id>",
	Short: "Fetch one row by id",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		entity := args[0]
		if err := validEntity(entity); err != nil {
			return err
		}
		if _, err := strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("id must be a number")
		}
		envelope, err := newClient().do("GET", "/"+entity+"/"+args[1])
		if err != nil {
			return err
		}
		return printJSON(envelope[entity])
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entity> <id>",
	Short: "Soft-delete one row by id",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		entity := args[0]
		if err := validEntity(entity); err != nil {
			return err
		}
		if _, err := strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("id must be a number")
		}
		if _, err := newClient().do("DELETE", "/"+entity+"/"+args[1]); err != nil {
			return err
		}
		fmt.Printf("%s %s deleted\n", entity, args[1])
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		envelope, err := newClient().do("GET", "/health")
		if err != nil {
			return err
		}
		fmt.Printf("ok, uptime %v\n", envelope["uptime"])
		return nil
	},
}

func init() {
	listCmd.Flags().Int("page", 0, "Page number (zero-based)")
	listCmd.Flags().Int("limit", 50, "Rows per page")
}
