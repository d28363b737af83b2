package main

import (
	"archive/zip"
	"os"

	"github.com/menta2k/batch-cropper/pkg/types"
)

// writeZip serializes one export archive as a ZIP file on disk.
func writeZip(path string, archive types.Archive) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, file := range archive.Files {
		w, err := zw.Create(file.Name)
		if err != nil {
			return err
		}
		if _, err := w.Write(file.Data); err != nil {
			return err
		}
	}
	return zw.Close()
}
