package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAsset is returned when a name has no registered path.
	ErrUnknownAsset = errors.New("unknown asset name")
	// ErrUnsupportedFormat is returned for file extensions no backend handles.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrLoaderClosed is returned for requests made after Close.
	ErrLoaderClosed = errors.New("loader is closed")
)

// AssetLoadError reports that a named model or texture failed to load or decode.
// It is never retried; callers omit the asset and carry on.
type AssetLoadError struct {
	Name string
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("asset %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("asset %q (%s): %v", e.Name, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// asAssetError wraps err in an AssetLoadError unless it already is one.
func asAssetError(name, path string, err error) error {
	var ae *AssetLoadError
	if errors.As(err, &ae) {
		return err
	}
	return &AssetLoadError{Name: name, Path: path, Err: err}
}
