package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"

	"autopartes/internal/model"

	"github.com/google/uuid"
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// ImageContentType sniffs the image format and reports whether it is allowed.
func ImageContentType(header []byte) (string, bool) {
	ct := http.DetectContentType(header)
	_, ok := imageExtensions[ct]
	return ct, ok
}

// PutProductImage stores a PNG, JPEG or WEBP image for the product and
// returns its public URL. Any other format fails with ErrInvalidImage.
func PutProductImage(ctx context.Context, store Store, productID string, body io.Reader) (string, error) {
	br := bufio.NewReaderSize(body, 512)
	header, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(header) == 0 {
		return "", model.ErrInvalidImage
	}

	ct, ok := ImageContentType(header)
	if !ok {
		return "", model.ErrInvalidImage
	}

	key := fmt.Sprintf("%s/%s%s", productID, uuid.NewString(), imageExtensions[ct])
	return store.Put(ctx, key, br, ct)
}
