package b25c

import (
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// Method selects how members are compressed by Write.
type Method uint16

const (
	MethodStore   Method = Method(zip.Store)
	MethodDeflate Method = Method(zip.Deflate)
	MethodZstd    Method = Method(zstd.ZipMethodWinZip)
)

// Write creates a package archive containing files. Members are written in
// name order so that equal input produces equal packages.
func Write(w io.Writer, files map[string][]byte, method Method) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: uint16(method),
		})
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to create member '%s': %w", name, err)
		}

		if _, err := fw.Write(files[name]); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write member '%s': %w", name, err)
		}
	}

	return zw.Close()
}
