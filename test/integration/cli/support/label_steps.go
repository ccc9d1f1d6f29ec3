package support

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/kielabel/internal/testutil"
	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"
)

// certificateRecord is one vehicle certificate record in PPOCRLabel form.
const certificateRecord = `[` +
	`{"transcription":"1.合格证编号","points":[[0,0],[100,0],[100,20],[0,20]],"difficult":false},` +
	`{"transcription":"WAB0123456789","points":[[110,2],[260,2],[260,18],[110,18]],"difficult":false},` +
	`{"transcription":"燃料种类：汽油","points":[[0,40],[140,40],[140,60],[0,60]],"difficult":false},` +
	`{"transcription":"外廓尺寸","points":[[0,80],[80,80],[80,100],[0,100]],"difficult":false},` +
	`{"transcription":"4750","points":[[100,80],[140,80],[140,100],[100,100]],"difficult":false},` +
	`{"transcription":"1820","points":[[160,80],[200,80],[200,100],[160,100]],"difficult":false},` +
	`{"transcription":"1475","points":[[220,80],[260,80],[260,100],[220,100]],"difficult":false}` +
	`]`

func (testCtx *TestContext) writeLines(filename string, lines []string) error {
	path := testCtx.Path(filename)
	if err := testutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600)
}

// aCertificateLabelFile writes a label file holding one certificate
// record per image name.
func (testCtx *TestContext) aCertificateLabelFile(filename, images string) error {
	var lines []string
	for _, name := range strings.Split(images, ",") {
		lines = append(lines, strings.TrimSpace(name)+"\t"+certificateRecord)
	}
	return testCtx.writeLines(filename, lines)
}

// aLabelFileWithRecords writes one line per table row. The first row is
// the header | image | annotations |; an empty annotations cell writes the
// image cell as a raw line without separator.
func (testCtx *TestContext) aLabelFileWithRecords(filename string, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("table needs a header and at least one row")
	}
	var lines []string
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected 2 cells per row, got %d", len(row.Cells))
		}
		image, annotations := row.Cells[0].Value, row.Cells[1].Value
		if annotations == "" {
			lines = append(lines, image)
			continue
		}
		lines = append(lines, image+"\t"+annotations)
	}
	return testCtx.writeLines(filename, lines)
}

// anOrientedJPEG writes a marked JPEG carrying the given EXIF orientation.
func (testCtx *TestContext) anOrientedJPEG(filename string, width, height, orientation int) error {
	img := testutil.CreateMarkedImage(width, height)
	return testutil.WriteOrientedJPEG(img, testCtx.Path(filename), uint16(orientation)) //nolint:gosec // G115: orientation is 1-8
}

// aPNGImage writes a plain white PNG.
func (testCtx *TestContext) aPNGImage(filename string, width, height int) error {
	path := testCtx.Path(filename)
	if err := testutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return imaging.Save(testutil.CreateTestImage(width, height, color.White), path)
}

// theImageShouldMeasure checks the stored pixel dimensions.
func (testCtx *TestContext) theImageShouldMeasure(filename string, width, height int) error {
	img, err := testutil.LoadImageFile(testCtx.Path(filename))
	if err != nil {
		return fmt.Errorf("failed to load image %s: %w", filename, err)
	}
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("image %s is %dx%d, want %dx%d", filename, b.Dx(), b.Dy(), width, height)
	}
	return nil
}

// theFileShouldAssignKey checks that some item in the file carries key_cls.
func (testCtx *TestContext) theFileShouldAssignKey(filename, key string) error {
	return testCtx.theFileShouldContain(filename, fmt.Sprintf(`"key_cls":%q`, key))
}

// theSummaryShouldCount reads the JSON summary on stdout and sums the
// per-key value counts over all files.
func (testCtx *TestContext) theSummaryShouldCount(want int, key string) error {
	var summary struct {
		Files []struct {
			ByKey map[string]int `json:"by_key"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(testCtx.LastOutput), &summary); err != nil {
		return fmt.Errorf("output is not a JSON summary: %w\nOutput: %s", err, testCtx.LastOutput)
	}
	got := 0
	for _, f := range summary.Files {
		got += f.ByKey[key]
	}
	if got != want {
		return fmt.Errorf("summary counts %d %s values, want %d", got, key, want)
	}
	return nil
}

// RegisterLabelSteps registers label file and image fixture steps.
func (testCtx *TestContext) RegisterLabelSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a certificate label file "([^"]*)" for images "([^"]*)"$`, testCtx.aCertificateLabelFile)
	sc.Step(`^a label file "([^"]*)" with records:$`, testCtx.aLabelFileWithRecords)
	sc.Step(`^the file "([^"]*)" should assign key "([^"]*)"$`, testCtx.theFileShouldAssignKey)
	sc.Step(`^the summary should count (\d+) "([^"]*)" values?$`, testCtx.theSummaryShouldCount)
	sc.Step(`^a JPEG image "([^"]*)" of (\d+)x(\d+) with EXIF orientation (\d+)$`, testCtx.anOrientedJPEG)
	sc.Step(`^a PNG image "([^"]*)" of (\d+)x(\d+)$`, testCtx.aPNGImage)
	sc.Step(`^the image "([^"]*)" should measure (\d+)x(\d+)$`, testCtx.theImageShouldMeasure)
}
