// Package bitmap assembles 8 bit RLE compressed Windows Bitmap files.
package bitmap

import (
	"encoding/binary"
	"image/color"
)

const (
	FileHeaderSize = 14
	InfoHeaderSize = 40
	HeaderSize     = FileHeaderSize + InfoHeaderSize

	// 72 DPI x 39.3701 inches per meter yields 2834.6472
	Resolution = 2835

	bitsPerPixel    = 8
	compressionRLE8 = 1
)

// The FileHeader structure contains information about the type, size, and layout
// of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Type      [2]byte // The file type: must be "BM".
	Size      uint32  // The size, in bytes, of the bitmap file.
	Reserved1 uint16  // Reserved; must be zero.
	Reserved2 uint16  // Reserved; must be zero.
	OffBits   uint32  // Offset, in bytes, from the start of the file to the pixel data.
}

// The InfoHeader structure contains information about the dimensions and color
// format of a DIB.
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapinfoheader
type InfoHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels; positive means bottom-up.
	Planes          uint16 // The number of planes for the target device, always 1.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression.
	SizeImage       uint32 // The size of the compressed pixel data, in bytes.
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of palette entries actually used by the bitmap.
	ColorsImportant uint32 // Number of entries required for display, 0 for all.
}

func (h *FileHeader) appendTo(buf []byte) []byte {
	buf = append(buf, h.Type[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, h.Size)
	buf = binary.LittleEndian.AppendUint16(buf, h.Reserved1)
	buf = binary.LittleEndian.AppendUint16(buf, h.Reserved2)
	return binary.LittleEndian.AppendUint32(buf, h.OffBits)
}

func (h *InfoHeader) appendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, h.Size)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.Width))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.Height))
	buf = binary.LittleEndian.AppendUint16(buf, h.Planes)
	buf = binary.LittleEndian.AppendUint16(buf, h.BitCount)
	buf = binary.LittleEndian.AppendUint32(buf, h.Compression)
	buf = binary.LittleEndian.AppendUint32(buf, h.SizeImage)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.XPixelsPerM))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.YPixelsPerM))
	buf = binary.LittleEndian.AppendUint32(buf, h.ColorsUsed)
	return binary.LittleEndian.AppendUint32(buf, h.ColorsImportant)
}

// MetadataSize is the length of both headers plus a palette of the given size.
func MetadataSize(colors int) int {
	return HeaderSize + 4*colors
}

// Headers returns the file and info headers describing an RLE8 bitmap whose
// compressed pixel data is pixelDataSize bytes long.
func Headers(width, height, colors, pixelDataSize int) (FileHeader, InfoHeader) {
	metaSize := MetadataSize(colors)

	fh := FileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    uint32(metaSize + pixelDataSize),
		OffBits: uint32(metaSize),
	}
	ih := InfoHeader{
		Size:        InfoHeaderSize,
		Width:       int32(width),
		Height:      int32(height),
		Planes:      1,
		BitCount:    bitsPerPixel,
		Compression: compressionRLE8,
		SizeImage:   uint32(pixelDataSize),
		XPixelsPerM: Resolution,
		YPixelsPerM: Resolution,
		ColorsUsed:  uint32(colors),
	}
	return fh, ih
}

// Metadata serializes the file header, the info header and the palette. Each
// palette entry is the 0xRRGGBB value stored as a little endian 32 bit integer,
// so the bytes read B, G, R, 0. Alpha is dropped without darkening the color.
func Metadata(width, height int, pal color.Palette, pixelDataSize int) []byte {
	fh, ih := Headers(width, height, len(pal), pixelDataSize)

	buf := make([]byte, 0, MetadataSize(len(pal)))
	buf = fh.appendTo(buf)
	buf = ih.appendTo(buf)
	for _, col := range pal {
		c := color.NRGBAModel.Convert(col).(color.NRGBA)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(c.R)<<16|uint32(c.G)<<8|uint32(c.B))
	}
	return buf
}
