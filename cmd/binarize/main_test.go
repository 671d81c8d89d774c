package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, width, height int, lum func(x, y int) uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: lum(x, y)})
		}
	}
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func split(x, y int) uint8 {
	if x < 5 {
		return 255
	}
	return 0
}

func TestRun(t *testing.T) {
	path := writeTestPNG(t, 10, 4, split)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"matrix", []string{"-binarizer", "global"}, strings.Repeat(".....XXXXX\n", 4)},
		{"hybrid falls back on small images", nil, strings.Repeat(".....XXXXX\n", 4)},
		{"row", []string{"-row", "0"}, ".....XXXX.\n"},
		{"crop", []string{"-crop", "3,0,5,4"}, strings.Repeat("..XXX\n", 4)},
		{"rotate", []string{"-rotate", "90"}, strings.Repeat("XXXX\n", 5) + strings.Repeat("....\n", 5)},
		{"invert", []string{"-invert"}, strings.Repeat("XXXXX.....\n", 4)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(append(tc.args, path), &stdout, &stderr)
			if code != 0 {
				t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
			}
			if got := stdout.String(); got != tc.want {
				t.Errorf("stdout:\n%s\nwant:\n%s", got, tc.want)
			}
		})
	}
}

func TestRunSummary(t *testing.T) {
	path := writeTestPNG(t, 10, 4, split)
	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if want := "10x4, 20 of 40 pixels dark"; !strings.Contains(stderr.String(), want) {
		t.Errorf("stderr = %q, want it to contain %q", stderr.String(), want)
	}
}

func TestRunBinarizationFailure(t *testing.T) {
	path := writeTestPNG(t, 10, 4, func(x, y int) uint8 { return 128 })
	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "binarization failed") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunBadArguments(t *testing.T) {
	path := writeTestPNG(t, 10, 4, split)
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no files", nil, 2},
		{"bad crop", []string{"-crop", "1,2,3", path}, 2},
		{"crop out of bounds", []string{"-crop", "8,0,5,4", path}, 1},
		{"bad rotation", []string{"-rotate", "30", path}, 1},
		{"row out of range", []string{"-row", "4", path}, 1},
		{"unknown binarizer", []string{"-binarizer", "otsu", path}, 1},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.png")}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tc.args, &stdout, &stderr); code != tc.want {
				t.Errorf("exit code %d, want %d (stderr: %s)", code, tc.want, stderr.String())
			}
		})
	}
}

func TestRunWritesPNG(t *testing.T) {
	path := writeTestPNG(t, 10, 4, split)
	out := filepath.Join(t.TempDir(), "out.png")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-out", out, path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be printed when writing a file, got %q", stdout.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("decoded %T, want *image.Gray", img)
	}
	if gray.GrayAt(0, 0).Y != 255 || gray.GrayAt(9, 3).Y != 0 {
		t.Errorf("unexpected pixels: (0,0)=%d (9,3)=%d", gray.GrayAt(0, 0).Y, gray.GrayAt(9, 3).Y)
	}
}

func TestParseCrop(t *testing.T) {
	rect, err := parseCrop("1, 2,3,4")
	if err != nil {
		t.Fatal(err)
	}
	if rect[0] != 1 || rect[1] != 2 || rect[2] != 3 || rect[3] != 4 {
		t.Errorf("parseCrop = %v", rect)
	}
	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "1,2,3,4,5"} {
		if _, err := parseCrop(bad); err == nil {
			t.Errorf("parseCrop(%q) should fail", bad)
		}
	}
}
