package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbiro/Multicorn/accesspoint"
	. "github.com/rbiro/Multicorn/internal/cli" //nolint:revive
	"github.com/rbiro/Multicorn/site"
)

const siteDescription = `
access_points:
  things:
    kind: memory
    properties:
      id: {type: int}
      name: {type: string}
      tags: {type: string, multi: true}
    identity: [id]
    rows:
      - {id: 1, name: foo, tags: [x]}
      - {id: 2, name: bar}
      - {id: 3, name: bar, tags: [x, y]}
  aliased:
    kind: aliases
    underlying: things
    aliases:
      nom: name
`

const postgresSiteDescription = `
access_points:
  remote:
    kind: postgres
    properties:
      id: {type: int}
`

func givenSiteFile(t *testing.T, description string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(description), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func Test_Search_ThroughAliases(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)

	// act
	out, _, err := run(t, "search", "--site", path, "--access-point", "aliased", "nom=bar")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":2,\"nom\":\"bar\",\"tags\":null}\n{\"id\":3,\"nom\":\"bar\",\"tags\":[\"x\",\"y\"]}\n", out)
}

func Test_Search_With_Operators(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)

	// act
	out, _, err := run(t, "search", "--site", path, "-a", "things", "id>=2", "name~b%", "id!=3")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":2,\"name\":\"bar\",\"tags\":null}\n", out)
}

func Test_Search_When_ValueIsNotAYAMLScalar(t *testing.T) {
	path := givenSiteFile(t, siteDescription)

	testCases := []struct {
		name      string
		condition string
		expected  string
	}{
		{
			name:      "leading percent",
			condition: "name~%ar",
			expected:  "{\"id\":2,\"name\":\"bar\",\"tags\":null}\n{\"id\":3,\"name\":\"bar\",\"tags\":[\"x\",\"y\"]}\n",
		},
		{name: "leading asterisk", condition: "name=*x", expected: ""},
		{name: "leading at sign", condition: "name=@x", expected: ""},
		{name: "colon and space", condition: "name=a: b", expected: ""},
		{name: "flow sequence", condition: "name=[bar]", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			out, _, err := run(t, "search", "--site", path, "-a", "things", tc.condition)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func Test_Search_When_ValueMatchesLiterally(t *testing.T) {
	// arrange
	description := strings.Replace(siteDescription, "{id: 2, name: bar}", "{id: 2, name: \"a: b\"}", 1)
	path := givenSiteFile(t, description)

	// act
	out, _, err := run(t, "search", "--site", path, "-a", "things", "name=a: b")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":2,\"name\":\"a: b\",\"tags\":null}\n", out)
}

func Test_Search_With_SiteFromEnvironment(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)
	t.Setenv("MULTICORN_SITE", path)

	// act
	out, _, err := run(t, "search", "-a", "things", "id=1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1,\"name\":\"foo\",\"tags\":[\"x\"]}\n", out)
}

func Test_Search_With_MultiValuedProperty(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)

	// act
	out, _, err := run(t, "search", "--site", path, "-a", "things", "tags=y")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":3,\"name\":\"bar\",\"tags\":[\"x\",\"y\"]}\n", out)
}

func Test_Search_When_NameIsMasked(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)

	// act
	_, errOut, err := run(t, "search", "--site", path, "-a", "aliased", "name=bar")

	// assert
	assert.ErrorIs(t, err, accesspoint.ErrUnknownProperty)
	assert.Contains(t, errOut, "Error:")
}

func Test_Search_Errors(t *testing.T) {
	path := givenSiteFile(t, siteDescription)

	testCases := []struct {
		name     string
		args     []string
		expected error
	}{
		{name: "missing site", args: []string{"search", "-a", "things"}, expected: ErrMissingSite},
		{name: "missing access point", args: []string{"search", "--site", path}, expected: ErrMissingAccessPoint},
		{name: "unknown access point", args: []string{"search", "--site", path, "-a", "nowhere"}, expected: site.ErrUnknownAccessPoint},
		{name: "malformed condition", args: []string{"search", "--site", path, "-a", "things", "id"}, expected: ErrInvalidCondition},
		{name: "bad log level", args: []string{"search", "--site", path, "-a", "things", "--log-level", "loud"}, expected: ErrInvalidLogLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MULTICORN_SITE", "")

			_, _, err := run(t, tc.args...)

			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func Test_Search_When_PostgresHasNoDSN(t *testing.T) {
	// arrange
	path := givenSiteFile(t, postgresSiteDescription)
	t.Setenv("MULTICORN_DSN", "")

	// act
	_, _, err := run(t, "search", "--site", path, "-a", "remote")

	// assert
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func Test_Search_LogsAtDebugLevel(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)

	// act
	_, errOut, err := run(t, "search", "--site", path, "-a", "aliased", "--log-level", "debug", "nom=foo")

	// assert
	require.NoError(t, err)
	assert.Contains(t, errOut, "aliases: request translated")
	assert.Contains(t, errOut, "siteconfig: access point built")
}

func Test_Schema(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)

	// act
	out, _, err := run(t, "schema", "--site", path, "-a", "aliased")

	// assert
	require.NoError(t, err)
	assert.Equal(t,
		"{\"name\":\"id\",\"type\":\"int\",\"multi\":false,\"identity\":true}\n"+
			"{\"name\":\"nom\",\"type\":\"string\",\"multi\":false,\"identity\":false}\n"+
			"{\"name\":\"tags\",\"type\":\"string\",\"multi\":true,\"identity\":false}\n",
		out,
	)
}

func Test_List(t *testing.T) {
	// arrange
	path := givenSiteFile(t, siteDescription)

	// act
	out, _, err := run(t, "list", "--site", path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "aliased\nthings\n", out)
}

func Test_ConfigFile(t *testing.T) {
	// arrange
	sitePath := givenSiteFile(t, siteDescription)
	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("site: "+sitePath+"\n"), 0o600))
	t.Setenv("MULTICORN_SITE", "")

	// act
	out, _, err := run(t, "list", "--config", settingsPath)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "aliased\nthings\n", out)
}
