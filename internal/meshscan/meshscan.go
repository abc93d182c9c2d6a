// Package meshscan reports texture-atlas coverage across a tree of NIF
// meshes. It does not parse the NIF structure: texture references are
// recovered as printable ASCII runs ending in a known texture extension,
// which is enough to tell atlased meshes from plain ones.
package meshscan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var textureExtensions = []string{".dds", ".tga", ".bmp"}

// Scanner reads meshes concurrently and classifies them by atlas usage.
type Scanner struct {
	workers int
	logger  *zap.SugaredLogger
}

// New creates a scanner running at most workers reads at once. A
// non-positive count means one worker per CPU.
func New(workers int, logger *zap.SugaredLogger) *Scanner {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Scanner{workers: workers, logger: logger}
}

// Coverage maps mesh paths (relative to the scanned root) to the texture
// paths found inside them, split by atlas usage.
type Coverage struct {
	With    map[string][]string `yaml:"with_atl"`
	Without map[string][]string `yaml:"without_atl"`
}

// Stats condenses a coverage map into counts and a percentage.
type Stats struct {
	WithAtlas    int     `yaml:"with_atl"`
	WithoutAtlas int     `yaml:"without_atl"`
	Coverage     float64 `yaml:"coverage"`
}

// Scan walks root for .nif files (any case) and classifies each one.
// Unreadable meshes are logged and left out of both maps.
func (s *Scanner) Scan(ctx context.Context, root string) (*Coverage, error) {
	meshes, err := findMeshes(root)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("scanning %d meshes under %s", len(meshes), root)

	cov := &Coverage{
		With:    make(map[string][]string),
		Without: make(map[string][]string),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, path := range meshes {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Warnf("skipping unreadable mesh %s: %v", path, err)
				return nil
			}
			textures := extractTexturePaths(data)

			mu.Lock()
			defer mu.Unlock()
			if hasAtlasTexture(textures) {
				cov.With[relKey(root, path)] = textures
			} else {
				cov.Without[relKey(root, path)] = textures
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Infof("%d meshes use atlas textures, %d do not", len(cov.With), len(cov.Without))
	return cov, nil
}

// Stats computes counts and the atlas coverage percentage.
func (c *Coverage) Stats() Stats {
	st := Stats{WithAtlas: len(c.With), WithoutAtlas: len(c.Without)}
	if total := len(c.With) + len(c.Without); total > 0 {
		st.Coverage = float64(len(c.With)) / float64(total) * 100
	}
	return st
}

// WriteReport writes atlas_coverage.yaml and atlas_coverage_stats.yaml
// into dir, creating the directory if needed.
func (c *Coverage) WriteReport(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := writeYAML(filepath.Join(dir, "atlas_coverage.yaml"), c); err != nil {
		return err
	}
	return writeYAML(filepath.Join(dir, "atlas_coverage_stats.yaml"), c.Stats())
}

func findMeshes(root string) ([]string, error) {
	var meshes []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".nif") {
			meshes = append(meshes, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return meshes, nil
}

// extractTexturePaths collects printable ASCII runs that end in a texture
// extension, lowercased. Mesh string fields are not NUL-padded in any
// consistent way, so runs are cut at any non-printable byte.
func extractTexturePaths(data []byte) []string {
	var paths []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		run := strings.ToLower(string(data[start:end]))
		start = -1
		for _, ext := range textureExtensions {
			if strings.HasSuffix(run, ext) && len(run) > len(ext) {
				paths = append(paths, run)
				return
			}
		}
	}
	for i, b := range data {
		if b >= 0x20 && b < 0x7f {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
		}
	}
	flush(len(data))
	return paths
}

func hasAtlasTexture(textures []string) bool {
	for _, t := range textures {
		if strings.Contains(t, `textures\atl`) {
			return true
		}
	}
	return false
}

// relKey prefers a root-relative key with forward slashes; meshes that
// resist Rel keep their full path.
func relKey(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

func writeYAML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
