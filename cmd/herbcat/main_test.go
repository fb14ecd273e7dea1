package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func setupCatalog(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "catalog")
	out, err := run(t, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "created herbcat.yaml")
	return dir
}

func TestCLI_Init(t *testing.T) {
	dir := setupCatalog(t)

	out, err := run(t, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "already initialized")
}

func TestCLI_Resolve(t *testing.T) {
	dir := setupCatalog(t)

	out, err := run(t, "resolve", "Sample Product", "--dir", dir, "--no-cache", "--locale", "ur")
	require.NoError(t, err)

	var got resolveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "sample-product", string(got.Product))
	assert.Equal(t, "alternate", string(got.Locale))
	assert.True(t, got.Known)
	content := got.Content.(map[string]any)
	assert.Equal(t, "Sample Product", content["hero"].(map[string]any)["title"])
	assert.Equal(t, "واٹس ایپ پر آرڈر کریں", content["faq"].(map[string]any)["cta"])
}

func TestCLI_ResolveSectionYAML(t *testing.T) {
	dir := setupCatalog(t)

	out, err := run(t, "resolve", "sample-product", "-C", dir, "--no-cache", "-s", "hero", "-o", "yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "hero", got["section"])
	assert.Equal(t, "Trusted for generations", got["content"].(map[string]any)["subtitle"])

	_, err = run(t, "resolve", "sample-product", "-C", dir, "--no-cache", "-s", "gallery")
	assert.ErrorContains(t, err, "gallery")
}

func TestCLI_ResolveUnknownShowsBase(t *testing.T) {
	dir := setupCatalog(t)

	out, err := run(t, "resolve", "no-such-thing", "-C", dir, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, `"known": false`)
	assert.Contains(t, out, "Pure Herbal Power")
}

func TestCLI_Price(t *testing.T) {
	dir := setupCatalog(t)

	tests := []struct {
		qty     string
		total   float64
		display string
	}{
		{"1", 2500, "Rs 2,500"},
		{"3", 6000, "Rs 6,000"},
		{"5", 12500, "Rs 12,500"},
	}
	for _, tc := range tests {
		t.Run(tc.qty, func(t *testing.T) {
			out, err := run(t, "price", "Sample-Product", tc.qty, "-C", dir, "--no-cache")
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tc.total, got["total"])
			assert.Equal(t, tc.display, got["display"])
		})
	}

	_, err := run(t, "price", "sample-product", "0", "-C", dir)
	assert.ErrorContains(t, err, "positive integer")

	_, err = run(t, "price", "sample-product", "9999999999999999", "-C", dir)
	assert.ErrorContains(t, err, "exceeds")

	_, err = run(t, "price", "ghost", "1", "-C", dir)
	assert.ErrorContains(t, err, "unknown product")
}

func TestCLI_List(t *testing.T) {
	dir := setupCatalog(t)

	out, err := run(t, "list", "-C", dir, "--no-cache", "--category", "MEN")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "sample-product", got[0]["key"])
	assert.Equal(t, float64(3000), got[0]["original_price"])

	out, err = run(t, "list", "-C", dir, "--no-cache", "--category", "weight-loss")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))

	_, err = run(t, "list", "-C", dir, "--category", "kids")
	assert.ErrorContains(t, err, "unknown category")
}

func TestCLI_Check(t *testing.T) {
	dir := setupCatalog(t)

	out, err := run(t, "check", "-C", dir, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog OK: 1 products, 3 categories")

	_, err = run(t, "check", "-C", filepath.Join(t.TempDir(), "empty"))
	assert.Error(t, err)
}

func TestCLI_Inspect(t *testing.T) {
	dir := setupCatalog(t)

	out, err := run(t, "inspect", "-C", dir, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, `"revision"`)
	assert.Contains(t, out, `"products": 1`)

	out, err = run(t, "inspect", "-C", dir, "--no-cache", "--diagram")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog")
}

func TestCLI_Flags(t *testing.T) {
	dir := setupCatalog(t)

	_, err := run(t, "list", "-C", dir, "-o", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "list", "-C", dir, "--locale", "fr")
	assert.ErrorContains(t, err, "unknown locale")

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "herbcat version "))
}
