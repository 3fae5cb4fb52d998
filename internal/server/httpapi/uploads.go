package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/filex"
	"github.com/gin-gonic/gin"
)

// stageFiles saves the named multipart files into the upload directory and
// returns their paths keyed by field. Missing fields are simply absent.
// On error nothing stays on disk.
func (h *Handler) stageFiles(c *gin.Context, fields ...string) (map[string]string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)

	staged := make(map[string]string, len(fields))
	fail := func(err error) (map[string]string, error) {
		removeStaged(staged)
		return nil, err
	}

	for _, field := range fields {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return fail(fmt.Errorf("%w: %s: %v", common.ErrInvalidInput, field, err))
		}

		dir, err := filex.EnsureSubdDir(h.opts.UploadDir)
		if err != nil {
			return fail(err)
		}
		path := filex.StagingPath(dir, fh.Filename)
		if err := c.SaveUploadedFile(fh, path); err != nil {
			return fail(fmt.Errorf("stage %s: %w", field, err))
		}
		staged[field] = path
	}
	return staged, nil
}

func removeStaged(staged map[string]string) {
	for _, p := range staged {
		_ = os.Remove(p)
	}
}
