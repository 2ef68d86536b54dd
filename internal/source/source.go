// Package source provides the named, file-backed input shared by the
// OSZICAR and OUTCAR readers.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"vaspio/internal/log"
)

// Default file names written by VASP
const (
	DefaultOszicar = "OSZICAR"
	DefaultOutcar  = "OUTCAR"
)

// ErrUnknownEncoding is returned when an encoding name cannot be resolved
var ErrUnknownEncoding = errors.New("unknown encoding")

// Opener is a named input that can be read from the start any number of times
type Opener interface {
	Filename() string
	Open() (io.ReadCloser, error)
}

// File is a named input file with an optional character encoding
type File struct {
	name    string
	decoder *encoding.Decoder
}

// New creates a File for filename. An empty encoding or any UTF-8 alias
// reads the bytes unchanged.
func New(filename, encodingName string) (*File, error) {
	decoder, err := lookupDecoder(encodingName)
	if err != nil {
		return nil, err
	}
	return &File{name: filename, decoder: decoder}, nil
}

// Filename returns the path the file was created with
func (f *File) Filename() string {
	return f.name
}

// Open opens a fresh handle on the file. Every call starts from the
// beginning; the caller owns the returned ReadCloser.
func (f *File) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.name, err)
	}

	if info, err := file.Stat(); err == nil {
		log.Debug("opened input", "file", f.name, "size", humanize.Bytes(uint64(info.Size())))
	}

	if f.decoder == nil {
		return file, nil
	}
	return &decodedFile{
		Reader: transform.NewReader(file, f.decoder),
		file:   file,
	}, nil
}

// decodedFile closes the underlying file of a transformed reader
type decodedFile struct {
	io.Reader
	file *os.File
}

func (d *decodedFile) Close() error {
	return d.file.Close()
}

func lookupDecoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownEncoding, name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w %q: not supported", ErrUnknownEncoding, name)
	}
	return enc.NewDecoder(), nil
}
