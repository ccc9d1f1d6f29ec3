package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeKo-Tech/kielabel/internal/config"
	"github.com/MeKo-Tech/kielabel/internal/kie"
	"github.com/MeKo-Tech/kielabel/internal/labelfile"
	"github.com/MeKo-Tech/kielabel/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAssignCommand(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	testutil.WriteLabelFile(t, dir, "Label.txt", testutil.CertificateLine(t, "img/1.jpg"))

	out, _, err := executeCommand(t, "assign", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Assignment Statistics:")
	assert.Contains(t, out, "Values: 5 (candidate 4, inline 1)")

	lines := testutil.ReadLines(t, filepath.Join(dir, "Label.kie.txt"))
	require.Len(t, lines, 1)
	rec, err := labelfile.ParseLine(lines[0])
	require.NoError(t, err)
	assert.Equal(t, "vc_no", rec.Items[0].Key())
	assert.Equal(t, "WAB0123456789", rec.Items[0].Text())
}

func TestAssignCommandOutputAndReport(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	in := testutil.WriteLabelFile(t, dir, "Label.txt", testutil.CertificateLine(t, "img/1.jpg"))
	outPath := filepath.Join(dir, "enriched.txt")
	reportPath := filepath.Join(dir, "summary.json")

	out, _, err := executeCommand(t, "assign", in, "-o", outPath, "-f", "json", "--report", reportPath, "--stats=false")
	require.NoError(t, err)
	assert.Equal(t, "Report written to "+reportPath+"\n", out)
	assert.True(t, testutil.FileExists(outPath))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report struct {
		Files []map[string]any `json:"files"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Files, 1)
	assert.Equal(t, in, report.Files[0]["file"])
}

func TestAssignCommandRowOverlapFlag(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	// The value sits 12px lower than its label: 8 of 20 pixels overlap.
	in := testutil.WriteLabelFile(t, dir, "Label.txt", testutil.LabelLine(t, "a.jpg",
		testutil.Box("车架号", 0, 0, 100, 20),
		testutil.Box("LSVAB1234", 120, 12, 260, 32),
	))

	_, _, err := executeCommand(t, "assign", in, "--row-overlap", "0.5", "-q", "--stats=false")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg\t[]"}, testutil.ReadLines(t, filepath.Join(dir, "Label.kie.txt")))

	_, _, err = executeCommand(t, "assign", in, "--row-overlap", "0.3", "-q", "--stats=false")
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadLines(t, filepath.Join(dir, "Label.kie.txt"))[0], `"key_cls":"vc_vin"`)
}

func TestAssignCommandMissingInput(t *testing.T) {
	isolateConfig(t)

	_, _, err := executeCommand(t, "assign", "/nonexistent/Label.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, labelfile.ErrInputNotFound)
}

func TestAssignCommandRequiresArgs(t *testing.T) {
	isolateConfig(t)

	_, _, err := executeCommand(t, "assign")
	assert.Error(t, err)
}

func TestConfigToBatchConfig(t *testing.T) {
	isolateConfig(t)
	root := NewRootCommand()
	assign, _, err := root.Find([]string{"assign"})
	require.NoError(t, err)

	cfg := configDefaults(t)
	cfg.Assign.MinXGap = 9
	cfg.Assign.Format = "csv"

	bc := configToBatchConfig(cfg, assign)
	assert.Equal(t, 9.0, bc.MinXGap, "unchanged flags keep config values")
	assert.Equal(t, "csv", bc.Format)

	require.NoError(t, assign.Flags().Set("min-x-gap", "3"))
	require.NoError(t, assign.Flags().Set("exclude", "tmp,old"))
	bc = configToBatchConfig(cfg, assign)
	assert.Equal(t, 3.0, bc.MinXGap, "changed flags win")
	assert.Equal(t, []string{"tmp", "old"}, bc.ExcludePatterns)
	assert.Equal(t, "csv", bc.Format)
}

func TestCheckCommand(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteLabelFile(t, dir, "Label.txt",
		testutil.LabelLine(t, "ok.jpg", testutil.Keyed("vc_no", "A1", 0, 0, 1, 1)),
		testutil.LabelLine(t, "dup.jpg", testutil.Keyed("vc_no", "A1", 0, 0, 1, 1), testutil.Keyed("vc_no", "B2", 0, 0, 1, 1)),
		testutil.LabelLine(t, "none.jpg", testutil.Box("", 0, 0, 1, 1)),
	)

	out, _, err := executeCommand(t, "check", path)
	require.NoError(t, err)
	assert.Equal(t, "dup.jpg\t重复标注:vc_no\nnone.jpg\t未识别:None\n", out)

	out, _, err = executeCommand(t, "check", path, "--lang", "en", "--allow-none")
	require.NoError(t, err)
	assert.Equal(t, "dup.jpg\tkey labelled twice:vc_no\n", out)
}

func TestCheckCommandDedup(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteLabelFile(t, dir, "Label.txt",
		testutil.LabelLine(t, "a.jpg", testutil.Keyed("vc_no", "A1", 0, 0, 1, 1), testutil.Keyed("vc_no", "A1", 0, 0, 1, 1)),
	)

	_, _, err := executeCommand(t, "check", path, "--dedup")
	require.NoError(t, err)
	assert.Equal(t, []string{
		testutil.LabelLine(t, "a.jpg", testutil.Keyed("vc_no", "A1", 0, 0, 1, 1)),
	}, testutil.ReadLines(t, path))
}

func TestCheckCommandBadLang(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteLabelFile(t, dir, "Label.txt", "a.jpg\t[]")

	_, _, err := executeCommand(t, "check", path, "--lang", "de")
	assert.Error(t, err)
}

func TestCheckCommandMetricsFile(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteLabelFile(t, dir, "Label.txt", "broken.jpg\t[{")
	metricsPath := filepath.Join(dir, "check.prom")

	out, _, err := executeCommand(t, "check", path, "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Equal(t, "broken.jpg\tJSON格式错误\n", out)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kielabel_check_problems_total{reason="invalid_json"} 1`)
}

func TestFilterCommand(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	label := testutil.WriteLabelFile(t, dir, "Label.txt", testutil.LabelLine(t, "a.jpg",
		testutil.Keyed("vc_no", "A1", 0, 0, 1, 1),
		testutil.Keyed("vc_vin", "LSV", 0, 0, 1, 1),
	))

	out, _, err := executeCommand(t, "filter", dir, "--keep", "vc_vin")
	require.NoError(t, err)
	assert.Contains(t, out, label+": 1 records, kept 1 items, removed 1, dropped 0 lines")
	assert.Contains(t, out, filepath.Join(dir, "Cache.cach")+": not found, skipped")
	assert.Equal(t, []string{
		testutil.LabelLine(t, "a.jpg", testutil.Keyed("vc_vin", "LSV", 0, 0, 1, 1)),
	}, testutil.ReadLines(t, label))
}

func TestFixDifficultCommand(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	item := testutil.Box("A1", 0, 0, 1, 1)
	item.Difficult = true
	path := testutil.WriteLabelFile(t, dir, "Label.txt", testutil.LabelLine(t, "a.jpg", item), "no tab")

	out, _, err := executeCommand(t, "fix-difficult", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 records, 1 difficult flags cleared, 1 lines passed through")

	lines := testutil.ReadLines(t, path)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"difficult":false`)
	assert.Equal(t, "no tab", lines[1])
}

func TestFixPlaceholderCommand(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteLabelFile(t, dir, "Label.txt",
		testutil.LabelLine(t, "a.jpg",
			testutil.Keyed("vc_displace", "一", 0, 0, 1, 1),
			testutil.Keyed("vc_no", "一", 0, 0, 1, 1),
		),
		"no tab",
	)

	out, _, err := executeCommand(t, "fix-placeholder", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 records, 1 placeholders normalized, 1 lines dropped")
	assert.Equal(t, []string{
		testutil.LabelLine(t, "a.jpg",
			testutil.Keyed("vc_displace", "-", 0, 0, 1, 1),
			testutil.Keyed("vc_no", "一", 0, 0, 1, 1),
		),
	}, testutil.ReadLines(t, path))
}

func TestFixPlaceholderCommandFlags(t *testing.T) {
	isolateConfig(t)
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteLabelFile(t, dir, "Label.txt",
		testutil.LabelLine(t, "a.jpg", testutil.Keyed("vc_no", "一", 0, 0, 1, 1)),
	)

	_, _, err := executeCommand(t, "fix-placeholder", path, "--keys", "vc_no", "--replacement", "/")
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadLines(t, path)[0], `"transcription":"/"`)
}

func TestOrientCommand(t *testing.T) {
	isolateConfig(t)
	root := testutil.CreateTempDir(t)
	good := filepath.Join(root, "a.jpg")
	bad := filepath.Join(root, "b.jpg")
	testutil.SaveOrientedJPEG(t, testutil.CreateMarkedImage(40, 20), good, 6)
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o600))

	out, _, err := executeCommand(t, "orient", root)
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] "+good)
	assert.Contains(t, out, "[FAIL] "+bad)
	assert.Contains(t, out, "Done: 1 ok, 1 failed")

	img, err := testutil.LoadImageFile(good)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestOrientCommandErrors(t *testing.T) {
	isolateConfig(t)
	root := testutil.CreateTempDir(t)

	_, _, err := executeCommand(t, "orient", root, "--quality", "0")
	assert.Error(t, err)

	_, _, err = executeCommand(t, "orient", filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestOverlayCommand(t *testing.T) {
	isolateConfig(t)
	root := testutil.CreateTempDir(t)
	testutil.SaveImage(t, testutil.CreateMarkedImage(120, 60), filepath.Join(root, "img", "a.png"))
	label := testutil.WriteLabelFile(t, filepath.Join(root, "img"), "Label.kie.txt",
		testutil.LabelLine(t, "img/a.png", testutil.Keyed("vc_no", "A1", 10, 10, 60, 30)),
		testutil.LabelLine(t, "img/missing.png", testutil.Keyed("vc_no", "A1", 10, 10, 60, 30)),
	)
	outDir := filepath.Join(root, "review")

	out, _, err := executeCommand(t, "overlay", label, "-o", outDir, "--box-color", "#00FF00")
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 1 images to "+outDir+" (1 failed, 0 lines skipped)")
	assert.True(t, testutil.FileExists(filepath.Join(outDir, "a_kie.png")))
}

func TestOverlayCommandBadColor(t *testing.T) {
	isolateConfig(t)
	label := testutil.WriteLabelFile(t, testutil.CreateTempDir(t), "Label.txt", "a.png\t[]")

	_, _, err := executeCommand(t, "overlay", label, "--box-color", "green")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlay.box_color")
}

func TestCatalogueCommand(t *testing.T) {
	isolateConfig(t)

	out, _, err := executeCommand(t, "catalogue")
	require.NoError(t, err)

	cat, err := kie.ParseCatalogue([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, kie.DefaultCatalogue(), cat)
}

func TestCatalogueCommandKeys(t *testing.T) {
	isolateConfig(t)

	out, _, err := executeCommand(t, "catalogue", "--keys")
	require.NoError(t, err)
	assert.Equal(t, kie.DefaultCatalogue().Keys(), strings.Fields(out))
}

func TestCatalogueCommandFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nfields:\n  - patterns: [\"^车架号\"]\n    value_keys: [vc_vin]\n"), 0o600))

	out, _, err := executeCommand(t, "catalogue", "--catalogue", path, "--keys")
	require.NoError(t, err)
	assert.Equal(t, "vc_vin\n", out)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("fields: 3\n"), 0o600))
	_, _, err = executeCommand(t, "catalogue", "--catalogue", bad)
	assert.ErrorIs(t, err, kie.ErrInvalidCatalogue)
}

func TestConfigInitCommand(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "generated.yaml")

	out, _, err := executeCommand(t, "config", "init", path)
	require.NoError(t, err)
	assert.Equal(t, "Configuration written to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Contains(t, doc, "assign")
	assert.Contains(t, doc, "check")

	_, _, err = executeCommand(t, "--config", path, "catalogue", "--keys")
	assert.NoError(t, err, "a generated file loads cleanly")
}

func configDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	return &cfg
}

// findSubcommand is a small helper for flag wiring checks.
func findSubcommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	sub, _, err := NewRootCommand().Find([]string{name})
	require.NoError(t, err)
	return sub
}

func TestSubcommandFlags(t *testing.T) {
	tests := map[string][]string{
		"assign":          {"catalogue", "min-x-gap", "row-overlap", "output", "format", "report", "metrics-file", "recursive", "include", "exclude", "quiet", "stats"},
		"check":           {"allow-none", "dedup", "lang", "watch", "debounce", "metrics-file"},
		"filter":          {"keep", "label-file", "cache-file"},
		"fix-placeholder": {"keys", "glyphs", "replacement"},
		"orient":          {"quality", "recursive", "ext"},
		"overlay":         {"output-dir", "image-root", "box-color", "font-color", "thickness", "skip-unkeyed"},
		"catalogue":       {"catalogue", "keys"},
	}
	for name, flags := range tests {
		sub := findSubcommand(t, name)
		for _, f := range flags {
			assert.NotNil(t, sub.Flags().Lookup(f), "%s --%s", name, f)
		}
	}
}
