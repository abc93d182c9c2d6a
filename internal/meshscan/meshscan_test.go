package meshscan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// writeMesh builds a fake mesh: binary noise with texture path strings
// embedded the way NIF string fields appear, NUL-terminated.
func writeMesh(t *testing.T, root, rel string, textures ...string) {
	t.Helper()
	data := []byte{0x4e, 0x69, 0x00, 0x01}
	for _, tex := range textures {
		data = append(data, tex...)
		data = append(data, 0x00, 0x02)
	}
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func newTestScanner() *Scanner {
	return New(2, zap.NewNop().Sugar())
}

func TestScan_ClassifiesMeshes(t *testing.T) {
	root := t.TempDir()
	writeMesh(t, root, "f/flora_atlas.nif", `Textures\ATL\flora.dds`)
	writeMesh(t, root, "f/rock.nif", `textures\rocks\rock_01.dds`, `textures\rocks\rock_01_n.dds`)
	writeMesh(t, root, "x/bare.nif")

	cov, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err)

	require.Contains(t, cov.With, "f/flora_atlas.nif")
	assert.Equal(t, []string{`textures\atl\flora.dds`}, cov.With["f/flora_atlas.nif"],
		"texture paths are lowercased")

	require.Contains(t, cov.Without, "f/rock.nif")
	assert.Len(t, cov.Without["f/rock.nif"], 2)
	assert.Contains(t, cov.Without, "x/bare.nif", "meshes without textures count as uncovered")
	assert.NotContains(t, cov.With, "f/rock.nif")
}

func TestScan_ExtensionCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeMesh(t, root, "UPPER.NIF", `textures\atl\a.dds`)
	writeMesh(t, root, "Mixed.Nif", `textures\b.dds`)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not a mesh"), 0o600))

	cov, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, cov.With, 1)
	assert.Len(t, cov.Without, 1)
}

func TestScan_UnreadableMeshSkipped(t *testing.T) {
	root := t.TempDir()
	writeMesh(t, root, "good.nif", `textures\atl\a.dds`)
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "ghost.nif")))

	cov, err := newTestScanner().Scan(context.Background(), root)
	require.NoError(t, err, "an unreadable mesh must not abort the scan")
	assert.Len(t, cov.With, 1)
	assert.Empty(t, cov.Without)
}

func TestScan_Canceled(t *testing.T) {
	root := t.TempDir()
	writeMesh(t, root, "a.nif")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner().Scan(ctx, root)
	require.Error(t, err)
}

func TestExtractTexturePaths(t *testing.T) {
	data := []byte("junk\x00Textures\\ATL\\Flora.DDS\x00\x01skin.tga\x00icon.BMP\x00readme\x00.dds\x00tail\\end.dds")
	paths := extractTexturePaths(data)
	assert.Equal(t, []string{
		`textures\atl\flora.dds`,
		"skin.tga",
		"icon.bmp",
		`tail\end.dds`,
	}, paths)
}

func TestCoverage_Stats(t *testing.T) {
	cov := &Coverage{
		With: map[string][]string{"a.nif": nil},
		Without: map[string][]string{
			"b.nif": nil, "c.nif": nil, "d.nif": nil,
		},
	}
	st := cov.Stats()
	assert.Equal(t, 1, st.WithAtlas)
	assert.Equal(t, 3, st.WithoutAtlas)
	assert.InDelta(t, 25.0, st.Coverage, 0.001)

	empty := &Coverage{With: map[string][]string{}, Without: map[string][]string{}}
	assert.Zero(t, empty.Stats().Coverage)
}

func TestWriteReport(t *testing.T) {
	cov := &Coverage{
		With:    map[string][]string{"a.nif": {`textures\atl\a.dds`}},
		Without: map[string][]string{"b.nif": {}},
	}

	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, cov.WriteReport(dir), "missing report directory is created")

	raw, err := os.ReadFile(filepath.Join(dir, "atlas_coverage.yaml"))
	require.NoError(t, err)
	var decoded map[string]map[string][]string
	require.NoError(t, yaml.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded["with_atl"], "a.nif")
	assert.Contains(t, decoded["without_atl"], "b.nif")

	raw, err = os.ReadFile(filepath.Join(dir, "atlas_coverage_stats.yaml"))
	require.NoError(t, err)
	var stats Stats
	require.NoError(t, yaml.Unmarshal(raw, &stats))
	assert.Equal(t, 1, stats.WithAtlas)
	assert.InDelta(t, 50.0, stats.Coverage, 0.001)
}
