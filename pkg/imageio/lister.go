package imageio

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// imageExts are the file extensions accepted without sniffing.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// imageMIMEs are the sniffed content types accepted for extension-less
// files.
var imageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/bmp":  true,
}

// sniffLen bounds how much of a file the sniffer reads.
const sniffLen = 3072

// List walks root and returns the candidate image paths in sorted order.
// Files with a recognized image extension are kept; extension-less files
// are kept when their leading bytes sniff as an image. Everything else is
// ignored. The pipeline downstream never inspects file names.
func List(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case imageExts[ext]:
			paths = append(paths, path)
		case ext == "":
			if sniffImage(path) {
				paths = append(paths, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func sniffImage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false
	}

	return imageMIMEs[mimetype.Detect(head[:n]).String()]
}
