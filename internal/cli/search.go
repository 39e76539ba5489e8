package cli

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rbiro/Multicorn/accesspoint"
	"github.com/rbiro/Multicorn/accesspoint/request"
)

var ErrInvalidCondition = errors.New("invalid condition, expected <name><op><value>")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// conditionPattern splits "name<op>value"; "~" stands for like.
var conditionPattern = regexp.MustCompile(`^([^=!<>~]+)(!=|<=|>=|=|<|>|~)(.*)$`)

const flagAccessPoint = "access-point"

func newSearchCommand(env *environment) *cobra.Command {
	var accessPointName string

	cmd := &cobra.Command{
		Use:   "search [condition...]",
		Short: "Print the items of an access point matching all conditions, one JSON object per line",
		Long: `Conditions have the form <name><op><value> where op is one of = != < <= > >= ~ (like).
Values are read as YAML scalars: id=2 compares with the integer 2, id='2' with the string "2".
Without conditions every item is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if accessPointName == "" {
				return ErrMissingAccessPoint
			}

			r, err := parseConditions(args)
			if err != nil {
				return err
			}

			s, release, err := env.site(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			items, err := s.SearchRequest(cmd.Context(), accessPointName, r)
			if err != nil {
				return err
			}

			return writeItems(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVarP(&accessPointName, flagAccessPoint, "a", "", "name of the access point to search")

	return cmd
}

// parseConditions builds an And of the conditions given on the command line.
func parseConditions(args []string) (request.Request, error) {
	conditions := make(request.And, 0, len(args))

	for _, arg := range args {
		match := conditionPattern.FindStringSubmatch(arg)
		if match == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCondition, arg)
		}

		operator := request.Operator(match[2])
		if match[2] == "~" {
			operator = request.Like
		}

		conditions = append(conditions, request.C(match[1], operator, conditionValue(match[3])))
	}

	return conditions, nil
}

// conditionValue decodes raw as a YAML scalar so "2" compares as an int and
// "true" as a bool. Anything that is not a scalar, such as "%ar", "*x" or
// "a: b", is kept as the literal string.
func conditionValue(raw string) any {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}

	switch value.(type) {
	case map[string]any, []any:
		return raw
	}

	return value
}

// writeItems prints every item as a JSON object keyed by the names the item exposes.
func writeItems(out io.Writer, items []accesspoint.Item) error {
	stream := json.BorrowStream(out)
	defer json.ReturnStream(stream)

	for _, item := range items {
		object := make(map[string]any, len(item.Names()))

		for _, name := range item.Names() {
			value, err := item.Value(name)
			if err != nil {
				return err
			}

			switch {
			case !value.IsSet():
				object[name] = nil
			case value.IsMulti():
				object[name] = value.List()
			default:
				object[name] = value.First()
			}
		}

		stream.WriteVal(object)
		stream.WriteRaw("\n")

		if err := stream.Flush(); err != nil {
			return err
		}
	}

	return stream.Error
}
