// Package archive packages the patch directories into a dated zip file.
//
// After a run that changed an inventory store, both patch directories are
// zipped into <output_dir>/【YYYY.MM.DD】<name>.zip with each directory as a
// top-level folder. An archive of the same day is replaced.
//
// When object storage is enabled the archive is uploaded under the configured
// prefix and, with a retention count, older uploads are removed.
package archive
