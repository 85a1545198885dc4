package slideuploader

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/menta2k/slide-uploader/internal/config"
	"github.com/menta2k/slide-uploader/pkg/types"
)

// fakeUploadClient records the request and serves a canned result
type fakeUploadClient struct {
	result *types.UploadResult
	err    error
	got    *types.UploadRequest
}

func (f *fakeUploadClient) PostInput(ctx context.Context, req *types.UploadRequest) (*types.UploadResult, error) {
	f.got = req
	return f.result, f.err
}

// writeRunFixture lays out a slide under the download path layout and a
// matching reference table, then chdirs into the root. Returns the relative
// slide path.
func writeRunFixture(t *testing.T, table string) string {
	t.Helper()
	root := t.TempDir()

	dir := filepath.Join(root, "cancer_a", "site_1", "GDC123")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	slidePath := filepath.Join(dir, "TCGA-AB-1234-01Z.svs")
	img := image.NewNRGBA(image.Rect(0, 0, 100, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	f, err := os.Create(slidePath)
	if err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(f, img, nil); err != nil {
		f.Close()
		t.Fatal(err)
	}
	f.Close()

	if err := os.WriteFile(filepath.Join(root, "tcga_metadata.csv"), []byte(table), 0644); err != nil {
		t.Fatal(err)
	}

	t.Chdir(root)
	return filepath.Join("cancer_a", "site_1", "GDC123", "TCGA-AB-1234-01Z.svs")
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ScaleFactor = 20
	return cfg
}

func TestRunSuccess(t *testing.T) {
	table := "0,Breast,2,Ductal and Lobular Neoplasms,Breast Invasive Carcinoma,5,6,BRCA,TCGA-AB-1234\n"
	slidePath := writeRunFixture(t, table)

	fc := &fakeUploadClient{result: &types.UploadResult{Success: true}}
	pipe := New(testConfig(), fc, nil)

	if err := pipe.Run(context.Background(), slidePath); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	scaledPath := filepath.Join("cancer_a", "site_1", "GDC123", "TCGA-AB-1234-01Z.png")
	if _, err := os.Stat(scaledPath); !os.IsNotExist(err) {
		t.Error("Scaled image should be deleted after a successful run")
	}
	if _, err := os.Stat(slidePath); !os.IsNotExist(err) {
		t.Error("Source slide should be deleted after a successful run")
	}

	if fc.got == nil {
		t.Fatal("Nothing was posted")
	}
	if len(fc.got.ImageBytes) == 0 {
		t.Error("Expected scaled image bytes in the request")
	}

	wantConcepts := []string{"cancer_a", "Breast", "Breast_Invasive_Carcinoma", "BRCA"}
	if len(fc.got.Concepts) != len(wantConcepts) {
		t.Fatalf("Expected %d concepts, got %+v", len(wantConcepts), fc.got.Concepts)
	}
	for i, want := range wantConcepts {
		if fc.got.Concepts[i].ID != want {
			t.Errorf("Concept %d: expected %s, got %s", i, want, fc.got.Concepts[i].ID)
		}
	}

	if fc.got.Metadata["tcga_id"] != "TCGA-AB-1234" {
		t.Errorf("Expected tcga_id metadata, got %+v", fc.got.Metadata)
	}
	if fc.got.Metadata["general_cancer"] != "cancer_a" {
		t.Errorf("Expected general_cancer metadata, got %+v", fc.got.Metadata)
	}
}

func TestRunWithoutReferenceRow(t *testing.T) {
	slidePath := writeRunFixture(t, "0,Skin,2,x,Skin Cutaneous Melanoma,5,6,SKCM,TCGA-ZZ-9999\n")

	fc := &fakeUploadClient{result: &types.UploadResult{Success: true}}
	pipe := New(testConfig(), fc, nil)

	if err := pipe.Run(context.Background(), slidePath); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(fc.got.Concepts) != 1 || fc.got.Concepts[0].ID != "cancer_a" {
		t.Errorf("Expected only the general cancer concept, got %+v", fc.got.Concepts)
	}
}

func TestRunRejectedUploadKeepsFiles(t *testing.T) {
	slidePath := writeRunFixture(t, "0,Breast,2,x,P,5,6,BRCA,TCGA-AB-1234\n")

	fc := &fakeUploadClient{result: &types.UploadResult{Success: false, Code: 30002, Details: "too large"}}
	pipe := New(testConfig(), fc, nil)

	if err := pipe.Run(context.Background(), slidePath); err == nil {
		t.Fatal("A rejected upload should fail the run")
	}

	scaledPath := filepath.Join("cancer_a", "site_1", "GDC123", "TCGA-AB-1234-01Z.png")
	if _, err := os.Stat(scaledPath); err != nil {
		t.Error("Scaled image must survive a rejected upload")
	}
	if _, err := os.Stat(slidePath); err != nil {
		t.Error("Source slide must survive a rejected upload")
	}
}

func TestRunSlideOpenFailure(t *testing.T) {
	slidePath := writeRunFixture(t, "")
	if err := os.WriteFile(slidePath, []byte("not a slide"), 0644); err != nil {
		t.Fatal(err)
	}

	fc := &fakeUploadClient{result: &types.UploadResult{Success: true}}
	pipe := New(testConfig(), fc, nil)

	if err := pipe.Run(context.Background(), slidePath); err == nil {
		t.Fatal("A malformed slide should fail the run")
	}
	if fc.got != nil {
		t.Error("Nothing should be posted when the slide cannot be opened")
	}
	if _, err := os.Stat(slidePath); err != nil {
		t.Error("Source slide must survive a failed run")
	}
}

func TestRunBadPathShape(t *testing.T) {
	fc := &fakeUploadClient{}
	pipe := New(testConfig(), fc, nil)

	if err := pipe.Run(context.Background(), "slide.svs"); err == nil {
		t.Fatal("A path without the expected layout should fail the run")
	}
}

func TestRunMissingReferenceTable(t *testing.T) {
	slidePath := writeRunFixture(t, "")
	if err := os.Remove("tcga_metadata.csv"); err != nil {
		t.Fatal(err)
	}

	fc := &fakeUploadClient{result: &types.UploadResult{Success: true}}
	pipe := New(testConfig(), fc, nil)

	if err := pipe.Run(context.Background(), slidePath); err == nil {
		t.Fatal("A missing reference table should fail the run")
	}
	if fc.got != nil {
		t.Error("Nothing should be posted when the lookup fails")
	}
}

func TestRunScaledDimensions(t *testing.T) {
	slidePath := writeRunFixture(t, "")

	// Keep the scaled file around to inspect it.
	fc := &fakeUploadClient{err: fmt.Errorf("connection refused")}
	pipe := New(testConfig(), fc, nil)

	if err := pipe.Run(context.Background(), slidePath); err == nil {
		t.Fatal("Expected the transport failure to surface")
	}

	scaledPath := filepath.Join("cancer_a", "site_1", "GDC123", "TCGA-AB-1234-01Z.png")
	f, err := os.Open(scaledPath)
	if err != nil {
		t.Fatalf("failed to open scaled image: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode scaled image: %v", err)
	}
	// 100x60 divided by 20
	if cfg.Width != 5 || cfg.Height != 3 {
		t.Errorf("Expected 5x3 scaled image, got %dx%d", cfg.Width, cfg.Height)
	}
}
