package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-flock/common"
)

// LoadTextureOrWhite loads the image at path through l. An empty path, or an image that fails to
// decode, yields a 1x1 white texture so the scene still renders. Failures are logged at warn level.
//
// Parameters:
//   - l: the loader that decodes the image
//   - path: the image file, or "" for none
//   - logger: receives the AssetLoadError of a failed load; nil uses slog.Default()
//
// Returns:
//   - common.TextureStagingData: the decoded pixels or the white fallback
func LoadTextureOrWhite(l Loader, path string, logger *slog.Logger) common.TextureStagingData {
	if path == "" {
		return common.WhiteTexture()
	}
	if logger == nil {
		logger = slog.Default()
	}

	tex, err := l.LoadTexture(path)
	if err != nil {
		logger.Warn("texture unavailable, using white", "path", path, "error", err)
		return common.WhiteTexture()
	}
	if tex.Empty() {
		logger.Warn("texture has no pixels, using white", "path", path)
		return common.WhiteTexture()
	}
	return tex
}
