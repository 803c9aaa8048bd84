package parser

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	o := &Options{InDir: "/src/lib"}
	require.NoError(t, o.Normalize())

	assert.Equal(t, "/src/lib", o.InDir)
	assert.Equal(t, []string{"./..."}, o.Patterns)
	assert.Equal(t, "_gen", o.OutSuffix)
	assert.Equal(t, "github.com/cmmoran/stylegen/pkg/style", o.RuntimePkg)
	assert.Equal(t, runtime.GOMAXPROCS(0), o.Workers)
	assert.Empty(t, o.ManifestPath)
}

func TestNormalizeRelativePaths(t *testing.T) {
	o := NewOptions().Apply(WithManifest("stylegen.lock"))
	require.NoError(t, o.Normalize())

	assert.True(t, filepath.IsAbs(o.InDir))
	assert.Equal(t, filepath.Join(o.InDir, "stylegen.lock"), o.ManifestPath)
}

func TestNormalizeRejects(t *testing.T) {
	o := NewOptions().Apply(WithOutSuffix("gen/x"))
	assert.Error(t, o.Normalize())

	o = NewOptions().Apply(WithExclude("[bad"))
	assert.Error(t, o.Normalize())
}

func TestOptionHelpers(t *testing.T) {
	o := NewOptions().Apply(
		WithInDir("/src"),
		WithPatterns("./ui/..."),
		WithOutSuffix(".styles"),
		WithRuntimePkg("example.com/style"),
		WithWorkers(2),
		WithoutSetterAssertion(),
		WithWatch(),
		WithScan(),
		WithExclude(" *_old.go "),
	)
	require.NoError(t, o.Normalize())

	assert.Equal(t, []string{"./ui/..."}, o.Patterns)
	assert.Equal(t, 2, o.Workers)
	assert.True(t, o.Watch)
	assert.True(t, o.Scan)
	assert.True(t, o.Excluded("/src/ui/para_old.go"))
	assert.False(t, o.Excluded("/src/ui/para.go"))
	assert.Equal(t, "/src/ui/para.styles.go", o.OutputPath("/src/ui/para.go"))

	cfg := o.GeneratorConfig("/src/ui/para.styles.go")
	assert.Equal(t, "example.com/style", cfg.RuntimePkg)
	assert.False(t, cfg.AssertSetter)
}
