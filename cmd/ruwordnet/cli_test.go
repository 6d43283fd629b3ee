package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI in-process from an empty working directory so no
// stray ruwordnet.yaml or .env is picked up.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func testdataDump(t *testing.T) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("..", "..", "pkg", "wordnet", "testdata", "dump"))
	require.NoError(t, err)
	return p
}

func TestCLI_ImportThenStats(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "ruwordnet.db")
	dump := testdataDump(t)

	out, err := run(t, tmp, "import", "--db", dbPath, "--dump", dump, "--with-lemmas", "--foreign-keys")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported")
	assert.Contains(t, out, "synsets:   4")
	assert.Contains(t, out, "lemmas:    6")

	out, err = run(t, tmp, "import", "--db", dbPath, "--dump", dump)
	require.NoError(t, err)
	assert.Contains(t, out, "already populated")

	out, err = run(t, tmp, "stats", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "relations: 3")

	out, err = run(t, tmp, "synset", "--db", dbPath, "100-N")
	require.NoError(t, err)
	assert.Contains(t, out, "100-N\tЕДА")
	assert.Contains(t, out, "100-N-2\tПИЩА")

	out, err = run(t, tmp, "hypernyms", "--db", dbPath, "101-N")
	require.NoError(t, err)
	assert.Equal(t, "100-N\tЕДА\n", out)

	out, err = run(t, tmp, "hyponyms", "--db", dbPath, "101-N")
	require.NoError(t, err)
	assert.Equal(t, "102-N\tБАТОН\n", out)
}

func TestCLI_EnvAndConfigFile(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "from-config.db")
	cfgPath := filepath.Join(tmp, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db: "+dbPath+"\nbatch_size: 2\n"), 0o644))
	t.Setenv("RUWORDNET_DUMP", testdataDump(t))

	_, err := run(t, tmp, "import", "--config", cfgPath)
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database path taken from the config file")
}

func TestCLI_MissingDump(t *testing.T) {
	tmp := t.TempDir()
	_, err := run(t, tmp, "import", "--db", filepath.Join(tmp, "x.db"), "--dump", filepath.Join(tmp, "missing"))
	assert.Error(t, err)
}

func TestCLI_ImportWithoutSynsetsFails(t *testing.T) {
	tmp := t.TempDir()
	dump := filepath.Join(tmp, "dump")
	require.NoError(t, os.MkdirAll(dump, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dump, "senses.N.xml"), []byte(`<senses><sense id="1-1" synset_id="1" name="ЕДА"/></senses>`), 0o644))
	dbPath := filepath.Join(tmp, "ruwordnet.db")

	for i := 0; i < 2; i++ {
		_, err := run(t, tmp, "import", "--db", dbPath, "--dump", dump)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no synsets")
	}

	out, err := run(t, tmp, "stats", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "senses:    0")
}

func TestCLI_SynsetNotFound(t *testing.T) {
	tmp := t.TempDir()
	_, err := run(t, tmp, "synset", "--db", filepath.Join(tmp, "empty.db"), "nope")
	assert.Error(t, err)
}

func TestCLI_InvalidBatchSize(t *testing.T) {
	tmp := t.TempDir()
	_, err := run(t, tmp, "import", "--batch-size", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestCLI_ImportWithDownload(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	files := map[string]string{
		"synsets.N.xml":          `<synsets><synset id="1" ruthes_name="ЕДА"/><synset id="2" ruthes_name="ХЛЕБ"/></synsets>`,
		"senses.N.xml":           `<senses><sense id="1-1" synset_id="1" name="ЕДА"/></senses>`,
		"synset_relations.N.xml": `<relations><relation name="hypernym" parent_id="1" child_id="2"/></relations>`,
	}
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	tmp := t.TempDir()
	dump := filepath.Join(tmp, "dump")
	dbPath := filepath.Join(tmp, "ruwordnet.db")

	out, err := run(t, tmp, "download", "--dump", dump, "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "synsets.N.xml")

	out, err = run(t, tmp, "import", "--download", "--db", dbPath, "--dump", dump, "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "synsets:   2")
	assert.Contains(t, out, "relations: 1")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ruwordnet dev")
}
