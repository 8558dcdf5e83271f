package config

import (
	"os"
	"path/filepath"
	"testing"

	"image-upscaler/internal/domain"
)

// TestDefaultSettings verifies baseline defaults are present.
func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()
	if cfg.Job.Model != "realesrgan-x4plus" {
		t.Fatalf("model = %q, want realesrgan-x4plus", cfg.Job.Model)
	}
	if cfg.Job.Scale != 4 || cfg.Job.SaveFormat != "png" {
		t.Fatalf("job defaults = %+v", cfg.Job)
	}
	if cfg.Job.OutputPath == "" || cfg.ModelsDir == "" {
		t.Fatal("expected non-empty output and models paths")
	}
	if cfg.Job.GPUID != "" {
		t.Fatalf("gpu id = %q, want empty", cfg.Job.GPUID)
	}
}

// TestJSONStoreLoadMissingReturnsDefaults checks first-run behavior.
func TestJSONStoreLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "settings.json")
	store := NewJSONStore(path)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Locale != "en" {
		t.Fatalf("locale = %q, want en", got.Locale)
	}
}

// TestJSONStoreSaveAndLoadRoundTrip checks persisted settings fidelity.
func TestJSONStoreSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	store := NewJSONStore(path)
	want := sampleSettings()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

// TestYAMLStorePartialPresetKeepsDefaults verifies preset files only override given keys.
func TestYAMLStorePartialPresetKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	preset := "job:\n  model: ultrasharp-4x\n  gpuId: \"1\"\n  customWidth: 1024\n  useCustomWidth: true\n"
	if err := os.WriteFile(path, []byte(preset), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewFileStore(path)
	if _, ok := store.(*YAMLStore); !ok {
		t.Fatalf("store = %T, want *YAMLStore", store)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Job.Model != "ultrasharp-4x" || got.Job.GPUID != "1" || got.Job.CustomWidth != 1024 || !got.Job.UseCustomWidth {
		t.Fatalf("job = %+v", got.Job)
	}
	if got.Job.Scale != DefaultScale || got.Job.SaveFormat != DefaultSaveFormat {
		t.Fatalf("defaults lost: %+v", got.Job)
	}
}

// TestYAMLStoreRoundTrip checks YAML save/load fidelity.
func TestYAMLStoreRoundTrip(t *testing.T) {
	store := NewYAMLStore(filepath.Join(t.TempDir(), "cfg", "settings.yml"))
	want := sampleSettings()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

// TestJSONStoreLoadInvalidJSON checks parse error handling.
func TestJSONStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not-json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewFileStore(path)
	if _, err := store.Load(); err == nil {
		t.Fatal("expected json parse error")
	}
}

// TestNormalizeFillsDefaults verifies trimming and fallback values.
func TestNormalizeFillsDefaults(t *testing.T) {
	got := Normalize(domain.Settings{
		Job: domain.JobConfiguration{
			Model:       "  ",
			GPUID:       " 0 ",
			Scale:       0,
			Compression: -1,
			TileSize:    -8,
		},
	})

	if got.Job.Model != DefaultModel || got.Job.Scale != DefaultScale || got.Job.SaveFormat != DefaultSaveFormat {
		t.Fatalf("job = %+v", got.Job)
	}
	if got.Job.GPUID != "0" {
		t.Fatalf("gpu id = %q, want 0", got.Job.GPUID)
	}
	if got.Job.Compression != 0 || got.Job.TileSize != 0 {
		t.Fatalf("compression/tile = %d/%d", got.Job.Compression, got.Job.TileSize)
	}
	if got.Locale != DefaultLocale {
		t.Fatalf("locale = %q", got.Locale)
	}
}

func sampleSettings() domain.Settings {
	return domain.Settings{
		Job: domain.JobConfiguration{
			Model:          "remacri-4x",
			Scale:          2,
			GPUID:          "0",
			SaveFormat:     "webp",
			Compression:    5,
			CustomWidth:    512,
			UseCustomWidth: true,
			TileSize:       128,
			Overwrite:      true,
			OutputPath:     "/out",
		},
		ModelsDir: "/models",
		Locale:    "de",
		BatchMode: true,
	}
}
