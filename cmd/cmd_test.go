package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/pagescrub/core/convert"
)

const testExport = "id\tpost_title\tpost_content\tpost_status\tpost_date\n" +
	"1\tAbout\t<p><strong>Bold</strong> and <em>it</em></p>\tpublish\t2024-01-01\n" +
	"2\tAbout\t<p>Old</p>\tdraft\t2023-01-01\n" +
	"3\tContact\t<ul><li>One</li><li>Two</li></ul>\tpublish\t2024-02-01\n"

type fixture struct {
	dir    string
	input  string
	pages  string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		input:  filepath.Join(dir, "db.out"),
		pages:  filepath.Join(dir, "pages.list"),
		config: filepath.Join(dir, "config.yaml"),
	}
	require.NoError(t, os.WriteFile(f.input, []byte(testExport), 0o644))
	require.NoError(t, os.WriteFile(f.pages, []byte("About, Missing\nContact\n"), 0o644))
	require.NoError(t, os.WriteFile(f.config, []byte("content:\n  workers: 2\n"), 0o644))
	return f
}

func (f fixture) args(command string, extra ...string) []string {
	return append([]string{command, "--config", f.config, "--input", f.input, "--pages", f.pages}, extra...)
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd(viper.New())
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestContentText(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "out")

	stdout, stderr, err := execute(t, f.args("content", "--output-dir", out)...)
	require.NoError(t, err)

	assert.Equal(t, "Bold and it\n", readFile(t, filepath.Join(out, "About.txt")))
	assert.Equal(t, "- One\n- Two\n", readFile(t, filepath.Join(out, "Contact.txt")))
	assert.Contains(t, stdout, "Wrote "+filepath.Join(out, "About.txt")+" (1, exact)")
	assert.Contains(t, stdout, "Wrote "+filepath.Join(out, "Contact.txt")+" (3, exact)")
	assert.Contains(t, stderr, "Missing page: Missing")
	assert.Contains(t, stderr, `msg="List items converted count: 2" page=Contact`)
}

func TestContentExtraOutputs(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "out")
	reportPath := filepath.Join(f.dir, "run.yaml")

	_, _, err := execute(t, f.args("content", "--output-dir", out,
		"--format", "both", "--notags", "--pdf", "--json", "--reference", "--verify",
		"--report", reportPath)...)
	require.NoError(t, err)

	for _, name := range []string{
		"About.txt", "About.md", "About_notags.txt", "About.pdf", "About.json", "About_reference.md",
		"Contact.txt", "Contact.md",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Equal(t, "- One\n- Two\n", readFile(t, filepath.Join(out, "Contact.md")))
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(out, "About.pdf")), "%PDF-"))
	assert.Contains(t, readFile(t, filepath.Join(out, "About.json")), `"markdown"`)

	rep := readFile(t, reportPath)
	assert.Contains(t, rep, "format: both")
	assert.Contains(t, rep, "- Missing")
	assert.NotContains(t, rep, "Census mismatch")
}

func TestContentInvalidRequest(t *testing.T) {
	f := newFixture(t)

	_, _, err := execute(t, f.args("content", "--output-dir", f.dir, "--format", "html")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, convert.ErrInvalidRequest)

	_, _, err = execute(t, f.args("content", "--output-dir", f.dir, "--table-delim", "tab", "--no-tabs")...)
	assert.ErrorIs(t, err, convert.ErrInvalidRequest)

	_, _, err = execute(t, f.args("content", "--output-dir", f.dir, "--utf", "--raw")...)
	assert.Error(t, err)
}

func TestContentInputErrors(t *testing.T) {
	f := newFixture(t)

	_, _, err := execute(t, "content", "--config", f.config, "--input", filepath.Join(f.dir, "nope"), "--pages", f.pages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")

	_, _, err = execute(t, "content", "--config", f.config, "--input", f.input, "--pages", filepath.Join(f.dir, "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pages list file not found")

	_, _, err = execute(t, f.args("content", "--lines=-1")...)
	assert.EqualError(t, err, "--lines must be 0 or a positive integer")

	empty := filepath.Join(f.dir, "empty.list")
	require.NoError(t, os.WriteFile(empty, []byte(" , \n"), 0o644))
	_, _, err = execute(t, "content", "--config", f.config, "--input", f.input, "--pages", empty)
	assert.EqualError(t, err, "pages list must include at least one page name")
}

func TestList(t *testing.T) {
	f := newFixture(t)

	stdout, _, err := execute(t, f.args("list")...)
	require.NoError(t, err)
	assert.Equal(t, "About,1,publish,2024-01-01\n"+
		"Contact,3,publish,2024-02-01\n"+
		"About,2,draft,2023-01-01\n", stdout)

	stdout, _, err = execute(t, f.args("list", "--only")...)
	require.NoError(t, err)
	assert.Equal(t, "About,1,publish,2024-01-01\n"+
		"Contact,3,publish,2024-02-01\n", stdout)
}

func TestListDetails(t *testing.T) {
	f := newFixture(t)

	stdout, stderr, err := execute(t, f.args("list", "--details")...)
	require.NoError(t, err)
	assert.Equal(t, "About,1,publish,2024-01-01,exact,About\n"+
		",,,,none,Missing\n"+
		"Contact,3,publish,2024-02-01,exact,Contact\n"+
		"About,2,draft,2023-01-01,exact,About\n", stdout)
	assert.Contains(t, stderr, "Missing page: Missing")

	_, _, err = execute(t, f.args("list", "--details", "--only")...)
	assert.Error(t, err)
}

func TestListOutputDir(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "csv")

	stdout, _, err := execute(t, f.args("list", "--output-dir", out)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "pages.csv (3 pages)")
	assert.Contains(t, readFile(t, filepath.Join(out, "pages.csv")), "Contact,3,publish,2024-02-01\n")
}
