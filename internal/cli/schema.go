package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

type propertyLine struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Multi    bool   `json:"multi"`
	Identity bool   `json:"identity"`
}

func newSchemaCommand(env *environment) *cobra.Command {
	var accessPointName string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the properties an access point exposes, one JSON object per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if accessPointName == "" {
				return ErrMissingAccessPoint
			}

			s, release, err := env.site(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			ap, err := s.AccessPoint(accessPointName)
			if err != nil {
				return err
			}

			schema := ap.Schema()
			identity := schema.Identity()
			encoder := json.NewEncoder(cmd.OutOrStdout())

			for _, name := range schema.Names() {
				property, _ := schema.Property(name)

				line := propertyLine{
					Name:     name,
					Type:     property.Type.String(),
					Multi:    property.MultiValued,
					Identity: slices.Contains(identity, name),
				}

				if err := encoder.Encode(line); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&accessPointName, flagAccessPoint, "a", "", "name of the access point")

	return cmd
}

func newListCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the names of the access points of the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, release, err := env.site(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			for _, name := range s.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
