// Command binarize converts images to black/white bitmaps the way a barcode
// reader sees them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ericlevine/binarize"
	"github.com/ericlevine/binarize/binarizer"
	"github.com/ericlevine/binarize/bitutil"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	binarizer string
	crop      []int
	rotate    int
	row       int
	invert    bool
	out       string
	verbose   bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("binarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	var crop string
	fs.StringVar(&opts.binarizer, "binarizer", "hybrid", "thresholding algorithm: hybrid or global")
	fs.StringVar(&crop, "crop", "", "crop rectangle `x,y,w,h` applied before binarizing")
	fs.IntVar(&opts.rotate, "rotate", 0, "counterclockwise rotation in degrees: 0, 45, 90, 180 or 270")
	fs.IntVar(&opts.row, "row", -1, "print only this row, binarized for 1D scanning")
	fs.BoolVar(&opts.invert, "invert", false, "invert luminance before binarizing")
	fs.StringVar(&opts.out, "out", "", "write the black/white matrix to this PNG file")
	fs.BoolVar(&opts.verbose, "v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: binarize [flags] <image-file> [image-file...]\n\n")
		fmt.Fprintf(stderr, "Binarize image files (PNG, JPEG, GIF, BMP, TIFF, WebP) and print the result.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	if crop != "" {
		rect, err := parseCrop(crop)
		if err != nil {
			fmt.Fprintf(stderr, "binarize: %v\n", err)
			return 2
		}
		opts.crop = rect
	}
	if opts.out != "" && fs.NArg() > 1 {
		fmt.Fprintf(stderr, "binarize: -out needs exactly one input file\n")
		return 2
	}
	if opts.verbose {
		binarize.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer binarize.SetLogger(nil)
	}

	exitCode := 0
	for _, path := range fs.Args() {
		if err := binarizeFile(path, &opts, stdout, stderr); err != nil {
			if errors.Is(err, binarize.ErrBinarizationFailed) {
				fmt.Fprintf(stderr, "%s: binarization failed\n", path)
			} else {
				fmt.Fprintf(stderr, "%s: error: %v\n", path, err)
			}
			exitCode = 1
		}
	}
	return exitCode
}

func binarizeFile(path string, opts *options, stdout, stderr io.Writer) error {
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	var source binarize.LuminanceSource = binarize.NewImageLuminanceSource(img)
	if opts.invert {
		source = binarize.Invert(source)
	}
	bin, err := newBinarizer(opts.binarizer, source)
	if err != nil {
		return err
	}
	bitmap, err := transform(binarize.NewBinaryBitmap(bin), opts)
	if err != nil {
		return err
	}

	if opts.row >= 0 {
		row, err := bitmap.BlackRow(opts.row, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, rowString(row, bitmap.Width()))
		return nil
	}

	matrix, err := bitmap.BlackMatrix()
	if err != nil {
		return err
	}
	if opts.out != "" {
		if err := writePNG(opts.out, matrix); err != nil {
			return err
		}
	} else {
		fmt.Fprint(stdout, matrix.StringWithChars("X", "."))
	}
	p := message.NewPrinter(language.English)
	p.Fprintf(stderr, "%s: %dx%d, %d of %d pixels dark\n",
		path, matrix.Width(), matrix.Height(), matrix.Count(), matrix.Width()*matrix.Height())
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func newBinarizer(name string, source binarize.LuminanceSource) (binarize.Binarizer, error) {
	switch name {
	case "hybrid":
		return binarizer.NewHybrid(source), nil
	case "global":
		return binarizer.NewGlobalHistogram(source), nil
	default:
		return nil, fmt.Errorf("unknown binarizer %q", name)
	}
}

// transform crops first, then rotates, so the crop rectangle is given in
// the coordinates of the input image.
func transform(bitmap *binarize.BinaryBitmap, opts *options) (*binarize.BinaryBitmap, error) {
	var err error
	if opts.crop != nil {
		bitmap, err = bitmap.Cropped(opts.crop[0], opts.crop[1], opts.crop[2], opts.crop[3])
		if err != nil {
			return nil, err
		}
	}
	switch opts.rotate {
	case 0:
		return bitmap, nil
	case 45:
		return bitmap.RotateCounterClockwise45()
	case 90, 180, 270:
		for i := 0; i < opts.rotate/90; i++ {
			if bitmap, err = bitmap.RotateCounterClockwise(); err != nil {
				return nil, err
			}
		}
		return bitmap, nil
	default:
		return nil, fmt.Errorf("unsupported rotation %d", opts.rotate)
	}
}

func parseCrop(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("crop %q: want x,y,w,h", s)
	}
	rect := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("crop %q: %w", s, err)
		}
		rect[i] = n
	}
	return rect, nil
}

func rowString(row *bitutil.BitArray, width int) string {
	var sb strings.Builder
	sb.Grow(width)
	for x := 0; x < width; x++ {
		if row.Get(x) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func writePNG(path string, matrix *bitutil.BitMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, matrix.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
