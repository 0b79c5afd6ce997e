package barcode

import (
	"context"
	"image"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// zxingBackend decodes symbols with the pure-Go ZXing port. One reader per
// requested symbology; each reader contributes at most one symbol per image.
type zxingBackend struct {
	tryHarder bool
}

// NewZXingBackend returns the default ZXing-backed decoder.
func NewZXingBackend(tryHarder bool) Backend {
	return &zxingBackend{tryHarder: tryHarder}
}

func (b *zxingBackend) Available() bool { return true }

func (b *zxingBackend) Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error) {
	if img == nil {
		return nil, nil
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, nil
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	if b.tryHarder || opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []Format{
			FormatPDF417, FormatQR, FormatDataMatrix, FormatAztec,
			FormatCode128, FormatCode39, FormatEAN8, FormatEAN13, FormatITF,
		}
	}

	var out []Result
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		reader := readerForFormat(f)
		if reader == nil {
			continue
		}
		// A reader miss surfaces as NotFoundException; that is a clean miss,
		// not a backend failure.
		res, err := reader.Decode(bmp, hints)
		if err != nil || res == nil {
			continue
		}
		out = append(out, Result{
			Type:  formatFromZXing(res.GetBarcodeFormat(), f),
			Value: res.GetText(),
		})
	}
	return out, nil
}

func readerForFormat(f Format) gozxing.Reader {
	switch f {
	case FormatPDF417:
		// gozxing v0.1.1 (the only version reachable through the module
		// proxy) does not ship the pdf417 package, so no reader exists.
		return nil
	case FormatQR:
		return qrcode.NewQRCodeReader()
	case FormatDataMatrix:
		return datamatrix.NewDataMatrixReader()
	case FormatAztec:
		return aztec.NewAztecReader()
	case FormatCode128:
		return oned.NewCode128Reader()
	case FormatCode39:
		return oned.NewCode39Reader()
	case FormatEAN8:
		return oned.NewEAN8Reader()
	case FormatEAN13:
		return oned.NewEAN13Reader()
	case FormatITF:
		return oned.NewITFReader()
	default:
		return nil
	}
}

func formatFromZXing(bf gozxing.BarcodeFormat, fallback Format) Format {
	switch bf {
	case gozxing.BarcodeFormat_PDF_417:
		return FormatPDF417
	case gozxing.BarcodeFormat_QR_CODE:
		return FormatQR
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return FormatDataMatrix
	case gozxing.BarcodeFormat_AZTEC:
		return FormatAztec
	case gozxing.BarcodeFormat_CODE_128:
		return FormatCode128
	case gozxing.BarcodeFormat_CODE_39:
		return FormatCode39
	case gozxing.BarcodeFormat_EAN_8:
		return FormatEAN8
	case gozxing.BarcodeFormat_EAN_13:
		return FormatEAN13
	case gozxing.BarcodeFormat_ITF:
		return FormatITF
	default:
		return fallback
	}
}
